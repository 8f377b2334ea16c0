package shared

import (
	"io"

	"github.com/spacemeshos/bitpack/bitstream"
)

// GranSpecificReader provides a wrapper for io.Reader to allow granularity-specific
// access to a stream of packed entries of a fixed bit width, where bit-granular and
// byte-granular widths are supported via a specialized code path. Both paths read
// the same LSB-first layout.
type GranSpecificReader struct {
	ReadNext func() (uint32, error)
}

func NewGranSpecificReader(rd io.Reader, itemBitSize uint) *GranSpecificReader {
	gsReader := new(GranSpecificReader)
	if itemBitSize%8 == 0 {
		// Byte-granular reader is using the underlying reader directly.
		b := make([]byte, itemBitSize/8)
		gsReader.ReadNext = func() (uint32, error) {
			if _, err := io.ReadFull(rd, b); err != nil {
				return 0, err
			}
			return UintLE(b), nil
		}
	} else {
		// Bit-granular reader is using bitstream as a wrapper for the underlying reader.
		br := bitstream.NewReader(rd)
		gsReader.ReadNext = func() (uint32, error) {
			v, err := br.ReadUint(int(itemBitSize))
			return uint32(v), err
		}
	}

	return gsReader
}

// GranSpecificWriter provides a wrapper for io.Writer to allow granularity-specific
// access to the stream according to the defined item bit size.
type GranSpecificWriter struct {
	WriteNext func(uint32) error
	Flush     func() error
}

func NewGranSpecificWriter(w io.Writer, itemBitSize uint) *GranSpecificWriter {
	gsWriter := new(GranSpecificWriter)
	if itemBitSize%8 == 0 {
		// Byte-granular writer is using the underlying writer directly.
		b := make([]byte, itemBitSize/8)
		gsWriter.WriteNext = func(v uint32) error {
			PutUintLE(b, v)
			_, err := w.Write(b)
			return err
		}
		gsWriter.Flush = func() error { return nil }
	} else {
		// Bit-granular writer is using bitstream as a wrapper for the underlying writer.
		bw := bitstream.NewWriter(w)
		gsWriter.WriteNext = func(v uint32) error {
			return bw.WriteUint(uint64(v), int(itemBitSize))
		}
		gsWriter.Flush = func() error {
			return bw.Flush(bitstream.Zero)
		}
	}

	return gsWriter
}

// UintLE decodes up to 4 little-endian bytes.
func UintLE(b []byte) uint32 {
	var v uint32
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint32(b[i])
	}
	return v
}

// PutUintLE encodes the len(b) LS bytes of v in little-endian order.
func PutUintLE(b []byte, v uint32) {
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}
