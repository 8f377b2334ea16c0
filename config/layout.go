package config

// FilesLayout describes how a stream of packed values is split across files.
// Every file but the last holds a multiple of 8 values, so it ends on a byte boundary.
type FilesLayout struct {
	NumFiles          uint
	FileNumValues     uint64
	LastFileNumValues uint64
}

func DeriveFilesLayout(bitWidth uint, count uint64, maxFileSize uint64) FilesLayout {
	maxFileSizeBits := maxFileSize * 8
	maxFileNumValues := maxFileSizeBits / uint64(bitWidth)
	maxFileNumValues -= maxFileNumValues % 8
	if maxFileNumValues == 0 {
		maxFileNumValues = 8
	}

	if count == 0 {
		return FilesLayout{NumFiles: 1, FileNumValues: maxFileNumValues}
	}

	numFiles := count / maxFileNumValues
	lastFileNumValues := maxFileNumValues
	remainder := count % maxFileNumValues
	if remainder > 0 {
		numFiles++
		lastFileNumValues = remainder
	}

	return FilesLayout{
		NumFiles:          uint(numFiles),
		FileNumValues:     maxFileNumValues,
		LastFileNumValues: lastFileNumValues,
	}
}

// NumValues returns the number of values held by the file at index.
func (l FilesLayout) NumValues(index uint) uint64 {
	if index == l.NumFiles-1 {
		return l.LastFileNumValues
	}
	return l.FileNumValues
}
