package persistence

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spacemeshos/bitpack/shared"
)

// FileWriter appends fixed-width values to a file, packed LSB-first.
type FileWriter struct {
	file      *os.File
	buf       *bufio.Writer
	gsWriter  *shared.GranSpecificWriter
	bitWidth  uint
	numValues uint64
}

func NewFileWriter(filename string, bitWidth uint) (*FileWriter, error) {
	if err := shared.ValidateBitWidth(bitWidth); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, shared.OwnerReadWrite)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &FileWriter{
		file:     f,
		buf:      buf,
		gsWriter: shared.NewGranSpecificWriter(buf, bitWidth),
		bitWidth: bitWidth,
	}, nil
}

func (w *FileWriter) WriteValue(v uint32) error {
	if w.bitWidth < shared.MaxBitWidth && v > shared.Mask(w.bitWidth) {
		return &shared.RangeError{Param: "value", Value: int64(v), Min: 0, Max: shared.MaxValue(w.bitWidth)}
	}
	if err := w.gsWriter.WriteNext(v); err != nil {
		return err
	}
	w.numValues++
	return nil
}

func (w *FileWriter) NumValues() uint64 {
	return w.numValues
}

// Close pads the last byte with zeros, flushes and closes the file.
func (w *FileWriter) Close() (*os.FileInfo, error) {
	if err := w.gsWriter.Flush(); err != nil {
		return nil, err
	}
	if err := w.buf.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush disk writer: %w", err)
	}
	w.buf = nil

	info, err := w.file.Stat()
	if err != nil {
		return nil, err
	}

	if err := w.file.Close(); err != nil {
		return nil, err
	}
	w.file = nil

	return &info, nil
}
