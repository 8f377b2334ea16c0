package bitstream

import (
	"io"
)

// BitReader reads bits from an io.Reader.
type BitReader struct {
	stream    io.Reader
	pending   [1]byte
	alignment uint8
}

// NewReader returns a new instance of BitReader.
func NewReader(r io.Reader) *BitReader {
	b := new(BitReader)
	b.stream = r
	b.alignment = 8
	return b
}

// Read reads the next numBits from the stream, regardless of the alignment,
// following the LSB pattern. The last byte holds the remaining bits in its LS bits.
func (br *BitReader) Read(numBits uint) ([]byte, error) {
	data := make([]byte, (numBits+7)/8)
	var idx int
	var consumed bool

	for numBits >= 8 {
		byt, err := br.ReadByte()
		if err != nil {
			return nil, unexpected(err, consumed)
		}

		data[idx] = byt
		idx++
		numBits -= 8
		consumed = true
	}

	if numBits > 0 {
		var lastByte byte
		for alignment := uint(0); alignment < numBits; alignment++ {
			bit, err := br.ReadBit()
			if err != nil {
				return nil, unexpected(err, consumed)
			}
			if bit {
				lastByte |= 1 << alignment
			}
			consumed = true
		}
		data[idx] = lastByte
	}

	return data, nil
}

// ReadUint reads the next numBits from the stream as an unsigned integer whose
// LS bit is the first bit read, regardless of the alignment.
func (br *BitReader) ReadUint(numBits int) (uint64, error) {
	var val uint64
	var shift uint

	for numBits >= 8 {
		byt, err := br.ReadByte()
		if err != nil {
			return 0, unexpected(err, shift > 0)
		}

		val |= uint64(byt) << shift
		shift += 8
		numBits -= 8
	}

	for ; numBits > 0; numBits-- {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, unexpected(err, shift > 0)
		}

		if bit {
			val |= 1 << shift
		}
		shift++
	}

	return val, nil
}

// ReadByte reads the next single byte from the stream, regardless of the alignment.
// If the byte is split, the LSB pattern is followed in bit-groups.
func (br *BitReader) ReadByte() (byte, error) {
	if br.alignment == 8 {
		if _, err := io.ReadFull(br.stream, br.pending[:]); err != nil {
			return 0, err
		}
		return br.pending[0], nil
	}

	// The byte stream is not aligned.
	// Use the current byte LS bits, combined with the next byte LS bits as MS bits.
	current := br.pending[0]
	if _, err := io.ReadFull(br.stream, br.pending[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}

	// Use the next pending byte LS bits to fill MS bits.
	current |= br.pending[0] << (8 - br.alignment)

	// Remove the used LS bits from the next pending byte.
	br.pending[0] >>= br.alignment

	return current, nil
}

// ReadBit reads the next single bit from the stream, LSB first.
func (br *BitReader) ReadBit() (Bit, error) {
	if br.alignment == 8 {
		if _, err := io.ReadFull(br.stream, br.pending[:]); err != nil {
			return Zero, err
		}
		br.alignment = 0
	}
	br.alignment++

	// Read LS bit.
	lsb := Bit(br.pending[0]&1 == 1)

	// Remove LS bit.
	br.pending[0] >>= 1

	return lsb, nil
}

// Pending returns the bits left over in the current partially consumed byte,
// as a value of n LS bits.
func (br *BitReader) Pending() (val byte, n int) {
	if br.alignment == 8 {
		return 0, 0
	}
	return br.pending[0], int(8 - br.alignment)
}

func unexpected(err error, consumed bool) error {
	if consumed && err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
