package persistence

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spacemeshos/bitpack/shared"
)

type FileReader struct {
	file     *os.File
	buf      *bufio.Reader
	gsReader *shared.GranSpecificReader
	bitWidth uint
}

// A compile time check to ensure that FileReader fully implements the Reader interface.
var _ Reader = (*FileReader)(nil)

func NewFileReader(name string, bitWidth uint) (*FileReader, error) {
	if err := shared.ValidateBitWidth(bitWidth); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(name, os.O_RDONLY, shared.OwnerReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for values reader: %w", err)
	}
	buf := bufio.NewReader(file)

	return &FileReader{
		file:     file,
		buf:      buf,
		gsReader: shared.NewGranSpecificReader(buf, bitWidth),
		bitWidth: bitWidth,
	}, nil
}

func (r *FileReader) ReadValue() (uint32, error) {
	return r.gsReader.ReadNext()
}

// NumValues returns the number of whole values the file can hold. For files that
// don't end on a value boundary, the zero padding may count as extra values.
func (r *FileReader) NumValues() (uint64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()) * 8 / uint64(r.bitWidth), nil
}

func (r *FileReader) Close() error {
	r.buf = nil
	return r.file.Close()
}
