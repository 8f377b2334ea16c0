package bitstream

import (
	"io"
)

// BitWriter writes bits to an io.Writer.
type BitWriter struct {
	stream    io.Writer
	pending   [1]byte
	alignment uint8
	written   int64
}

// NewWriter returns a new instance of BitWriter.
func NewWriter(w io.Writer) *BitWriter {
	bw := new(BitWriter)
	bw.stream = w
	bw.alignment = 0 // less-significant bit
	return bw
}

// Write writes the numBits LS bits of data to the stream, regardless of the alignment.
// Bytes of data are consumed in order, each one LSB first. data is not modified.
func (bw *BitWriter) Write(data []byte, numBits int) error {
	var idx int
	for numBits >= 8 {
		if err := bw.WriteByte(data[idx]); err != nil {
			return err
		}
		numBits -= 8
		idx++
	}

	if numBits > 0 {
		last := data[idx]
		for ; numBits > 0; numBits-- {
			if err := bw.WriteBit(last&1 == 1); err != nil {
				return err
			}
			last >>= 1
		}
	}

	return nil
}

// WriteUint writes the numBits LS bits of val, LS bit first, regardless of the alignment.
func (bw *BitWriter) WriteUint(val uint64, numBits int) error {
	for numBits >= 8 {
		if err := bw.WriteByte(byte(val)); err != nil {
			return err
		}
		val >>= 8
		numBits -= 8
	}

	for ; numBits > 0; numBits-- {
		if err := bw.WriteBit(val&1 == 1); err != nil {
			return err
		}
		val >>= 1
	}

	return nil
}

// WriteByte writes a single byte to the stream, regardless of the alignment.
// If the byte is to be split due to alignment, the LSB pattern is followed in bit-groups.
func (bw *BitWriter) WriteByte(b byte) error {
	// Fill the pending byte MS bits with LS bits.
	bw.pending[0] |= b << bw.alignment

	if err := bw.emit(); err != nil {
		return err
	}

	// Fill the new pending byte LS bits with MS bits.
	bw.pending[0] = b >> (8 - bw.alignment)

	return nil
}

// WriteBit writes a single bit to the stream, LSB first.
func (bw *BitWriter) WriteBit(bit Bit) error {
	if bit {
		bw.pending[0] |= 1 << bw.alignment
	}

	bw.alignment++

	if bw.alignment == 8 {
		if err := bw.emit(); err != nil {
			return err
		}
		bw.pending[0] = 0
		bw.alignment = 0
	}

	return nil
}

// Flush flushes the currently pending byte to the stream by filling it with bit.
func (bw *BitWriter) Flush(bit Bit) error {
	for bw.alignment != 0 {
		if err := bw.WriteBit(bit); err != nil {
			return err
		}
	}

	return nil
}

// Written returns the number of whole bytes emitted to the underlying stream.
func (bw *BitWriter) Written() int64 {
	return bw.written
}

func (bw *BitWriter) emit() error {
	n, err := bw.stream.Write(bw.pending[:])
	if err != nil {
		return err
	}
	if n != 1 {
		return io.ErrShortWrite
	}
	bw.written++
	return nil
}
