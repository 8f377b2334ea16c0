// Package bitbuffer provides Buffer, a fixed-shape array of unsigned integers of
// a uniform bit width, packed with no padding into the minimal number of bytes.
//
// Entry i occupies bits [i*W, i*W+W) of an LSB-first bit stream laid over the
// bytes: stream bit 8k+b is bit b of byte k, and bit j of an entry is stream
// bit i*W+j. Unused high bits of the last byte stay zero.
//
// A Buffer holds no lock. Confine it to one goroutine or guard it externally.
package bitbuffer

import (
	"bytes"
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/spacemeshos/bitpack/bitvalue"
	"github.com/spacemeshos/bitpack/shared"
)

type Buffer struct {
	width uint
	count int
	data  []byte
}

// New returns a zero-filled Buffer of count entries of width bits each.
func New(width uint, count int) (*Buffer, error) {
	if err := validateShape(width, count); err != nil {
		return nil, err
	}

	return &Buffer{
		width: width,
		count: count,
		data:  make([]byte, shared.NumBytes(width, count)),
	}, nil
}

// FromBytes returns a Buffer of the given shape backed by a copy of data.
// data must be exactly as long as the shape requires; its bits are taken verbatim.
func FromBytes(data []byte, width uint, count int) (*Buffer, error) {
	if err := validateShape(width, count); err != nil {
		return nil, err
	}
	if expected := shared.NumBytes(width, count); len(data) != expected {
		return nil, &shared.LengthMismatchError{
			BitWidth: width,
			Count:    count,
			Expected: expected,
			Found:    len(data),
		}
	}

	b := &Buffer{
		width: width,
		count: count,
		data:  make([]byte, len(data)),
	}
	copy(b.data, data)
	return b, nil
}

// Generate returns a Buffer whose entry i is produced by fn(i).
// It stops at the first error returned by fn or by the range check.
func Generate(width uint, count int, fn func(index int) (uint32, error)) (*Buffer, error) {
	b, err := New(width, count)
	if err != nil {
		return nil, err
	}

	for i := 0; i < count; i++ {
		v, err := fn(i)
		if err != nil {
			return nil, err
		}
		if err := b.SetValue(i, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Buffer) BitWidth() uint { return b.width }

// Len returns the number of entries.
func (b *Buffer) Len() int { return b.count }

// Bytes returns the backing bytes, not a copy.
func (b *Buffer) Bytes() []byte { return b.data }

// SetValue stores value at index. On error the buffer is left unchanged.
func (b *Buffer) SetValue(index int, value uint32) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if err := b.checkValue(value); err != nil {
		return err
	}

	b.put(index, value)
	return nil
}

// Value returns the entry at index.
func (b *Buffer) Value(index int) (uint32, error) {
	if err := b.checkIndex(index); err != nil {
		return 0, err
	}
	return b.get(index), nil
}

// SetBitValue stores v at index. v must be no wider than the buffer.
func (b *Buffer) SetBitValue(index int, v bitvalue.Value) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if _, err := v.Widen(b.width); err != nil {
		return err
	}

	b.put(index, v.Get())
	return nil
}

// BitValue returns the entry at index tagged with the buffer width.
func (b *Buffer) BitValue(index int) (bitvalue.Value, error) {
	v, err := b.Value(index)
	if err != nil {
		return bitvalue.Value{}, err
	}
	return bitvalue.New(v, b.width)
}

// SetValues stores values at consecutive entries starting at start.
// All values are validated before anything is written.
func (b *Buffer) SetValues(start int, values []uint32) error {
	if len(values) == 0 {
		return nil
	}
	if err := b.checkIndex(start); err != nil {
		return err
	}
	if err := b.checkIndex(start + len(values) - 1); err != nil {
		return err
	}
	for _, v := range values {
		if err := b.checkValue(v); err != nil {
			return err
		}
	}

	for i, v := range values {
		b.put(start+i, v)
	}
	return nil
}

// Values returns all entries in order.
func (b *Buffer) Values() []uint32 {
	values := make([]uint32, b.count)
	for i := range values {
		values[i] = b.get(i)
	}
	return values
}

func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		width: b.width,
		count: b.count,
		data:  make([]byte, len(b.data)),
	}
	copy(c.data, b.data)
	return c
}

// Equal reports whether both buffers have the same shape and the same bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	return b.width == other.width && b.count == other.count && bytes.Equal(b.data, other.data)
}

// Checksum returns a hash of the shape and the backing bytes.
func (b *Buffer) Checksum() uint64 {
	var header [9]byte
	header[0] = byte(b.width)
	binary.LittleEndian.PutUint64(header[1:], uint64(b.count))

	h := xxh3.New()
	_, _ = h.Write(header[:])
	_, _ = h.Write(b.data)
	return h.Sum64()
}

// put writes the width LS bits of value at index, one masked
// read-modify-write per touched byte. Bits of other entries are preserved.
func (b *Buffer) put(index int, value uint32) {
	pos := index * int(b.width)
	idx := pos / 8
	offset := uint(pos % 8)

	mask := uint64(shared.Mask(b.width)) << offset
	val := (uint64(value) << offset) & mask

	for ; mask != 0; idx++ {
		b.data[idx] = b.data[idx]&^byte(mask) | byte(val)
		mask >>= 8
		val >>= 8
	}
}

func (b *Buffer) get(index int) uint32 {
	pos := index * int(b.width)
	idx := pos / 8
	offset := uint(pos % 8)

	var val uint64
	for shift := uint(0); shift < offset+b.width; shift += 8 {
		val |= uint64(b.data[idx]) << shift
		idx++
	}

	return uint32(val>>offset) & shared.Mask(b.width)
}

func (b *Buffer) checkIndex(index int) error {
	if index < 0 || index >= b.count {
		return &shared.IndexError{Index: index, Count: b.count}
	}
	return nil
}

func (b *Buffer) checkValue(value uint32) error {
	if b.width < shared.MaxBitWidth && value > shared.Mask(b.width) {
		return &shared.RangeError{Param: "value", Value: int64(value), Min: 0, Max: shared.MaxValue(b.width)}
	}
	return nil
}

func validateShape(width uint, count int) error {
	if err := shared.ValidateBitWidth(width); err != nil {
		return err
	}
	if count < 0 {
		return &shared.RangeError{Param: "count", Value: int64(count), Min: 0, Max: int64(shared.MaxCount(width))}
	}
	return shared.ValidateCount(width, uint64(count))
}
