package bitbuffer

import (
	"fmt"
	"io"

	"github.com/spacemeshos/bitpack/bitstream"
	"github.com/spacemeshos/bitpack/shared"
)

// A compile time check to ensure that Buffer implements io.WriterTo.
var _ io.WriterTo = (*Buffer)(nil)

// WriteTo streams the entries to w. The bytes written are identical to Bytes(),
// with the padding bits of the last byte written as zeros.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	bw := bitstream.NewWriter(w)
	for i := 0; i < b.count; i++ {
		if err := bw.WriteUint(uint64(b.get(i)), int(b.width)); err != nil {
			return bw.Written(), err
		}
	}
	if err := bw.Flush(bitstream.Zero); err != nil {
		return bw.Written(), err
	}
	return bw.Written(), nil
}

// Decode reads count entries of width bits from r, as written by WriteTo.
// The padding bits of the last byte are consumed and discarded.
func Decode(r io.Reader, width uint, count int) (*Buffer, error) {
	b, err := New(width, count)
	if err != nil {
		return nil, err
	}

	gsReader := shared.NewGranSpecificReader(r, width)
	for i := 0; i < count; i++ {
		v, err := gsReader.ReadNext()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("failed to decode entry %d of %d: %w", i, count, err)
		}
		b.put(i, v)
	}
	return b, nil
}
