package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spacemeshos/bitpack/shared"
)

type Reader interface {
	ReadValue() (uint32, error)
	NumValues() (uint64, error)
	Close() error
}

// NewValuesReader returns a new values reader from the stream files in datadir.
// If the stream was split into multiple files, they will be grouped
// into one unified reader.
func NewValuesReader(datadir string, bitWidth uint) (Reader, error) {
	readers, err := GetReaders(datadir, bitWidth)
	if err != nil {
		return nil, err
	}
	if len(readers) == 1 {
		return readers[0], nil
	}

	return groupOrClose(readers)
}

// groupOrClose groups readers, closing all of them if they can't be grouped.
func groupOrClose(readers []Reader) (Reader, error) {
	group, err := Group(readers)
	if err != nil {
		for _, r := range readers {
			if r != nil {
				_ = r.Close()
			}
		}
		return nil, err
	}
	return group, nil
}

func GetReaders(datadir string, bitWidth uint) ([]Reader, error) {
	files, err := os.ReadDir(datadir)
	if err != nil {
		return nil, fmt.Errorf("stream directory not found: %w", err)
	}

	// Filter.
	var valuesFiles []os.FileInfo
	for _, file := range files {
		info, err := file.Info()
		if err != nil {
			continue
		}
		if IsValuesFile(info) {
			valuesFiles = append(valuesFiles, info)
		}
	}
	if len(valuesFiles) == 0 {
		return nil, fmt.Errorf("stream directory (%v) has no values files", datadir)
	}

	// Sort.
	sort.Sort(numericalSorter(valuesFiles))

	// Initialize readers.
	var readers []Reader
	for _, file := range valuesFiles {
		reader, err := NewFileReader(filepath.Join(datadir, file.Name()), bitWidth)
		if err != nil {
			for _, r := range readers {
				_ = r.Close()
			}
			return nil, err
		}
		readers = append(readers, reader)
	}

	return readers, nil
}

func NewValuesWriter(datadir string, index int, bitWidth uint) (*FileWriter, error) {
	if err := os.MkdirAll(datadir, shared.OwnerReadWriteExec); err != nil {
		return nil, err
	}

	filename := filepath.Join(datadir, ValuesFileName(index))
	return NewFileWriter(filename, bitWidth)
}
