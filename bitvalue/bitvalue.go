// Package bitvalue provides Value, an unsigned integer tagged with the number
// of low-order bits that are significant for it.
//
// Two values are equal only when both the number and the width match:
// New(5, 8) and New(5, 4) hold the same number but are different values.
package bitvalue

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/spacemeshos/bitpack/shared"
)

const (
	Uint8Width  = 8
	Uint16Width = 16
	IntWidth    = 24
	Uint32Width = 32
)

// Value is an unsigned integer of 1 to 32 significant bits.
// The zero Value has no width and is only returned alongside an error.
type Value struct {
	value uint32
	width uint8
}

// New returns a Value of width bits. It fails if width is not in [1, 32]
// or if value doesn't fit in width bits.
func New(value uint32, width uint) (Value, error) {
	if err := shared.ValidateBitWidth(width); err != nil {
		return Value{}, err
	}
	if err := checkRange(value, width); err != nil {
		return Value{}, err
	}
	return Value{value: value & shared.Mask(width), width: uint8(width)}, nil
}

func FromUint8(v uint8) Value {
	return Value{value: uint32(v), width: Uint8Width}
}

func FromUint16(v uint16) Value {
	return Value{value: uint32(v), width: Uint16Width}
}

func FromUint32(v uint32) Value {
	return Value{value: v, width: Uint32Width}
}

// FromInt16 returns a 16-bit Value. With check set, negative input is rejected;
// otherwise the two's complement bit pattern of v is stored as is.
func FromInt16(v int16, check bool) (Value, error) {
	if check && v < 0 {
		return Value{}, &shared.RangeError{Param: "value", Value: int64(v), Min: 0, Max: math.MaxInt16}
	}
	return Value{value: uint32(uint16(v)), width: Uint16Width}, nil
}

// FromInt returns a 24-bit Value.
func FromInt(v int) (Value, error) {
	if v < 0 || v > int(shared.Mask(IntWidth)) {
		return Value{}, &shared.RangeError{Param: "value", Value: int64(v), Min: 0, Max: shared.MaxValue(IntWidth)}
	}
	return Value{value: uint32(v), width: IntWidth}, nil
}

// Get returns the value, masked to its width.
func (v Value) Get() uint32 {
	return v.value & shared.Mask(uint(v.width))
}

func (v Value) Width() uint {
	return uint(v.width)
}

// Set replaces the stored value. The width is kept; values that don't fit in it are rejected.
func (v *Value) Set(value uint32) error {
	if err := checkRange(value, uint(v.width)); err != nil {
		return err
	}
	v.value = value & shared.Mask(uint(v.width))
	return nil
}

// Widen returns the same number tagged with the wider width target.
func (v Value) Widen(target uint) (Value, error) {
	if err := shared.ValidateBitWidth(target); err != nil {
		return Value{}, err
	}
	if target < uint(v.width) {
		return Value{}, &shared.ConversionError{From: uint(v.width), To: target}
	}
	return Value{value: v.Get(), width: uint8(target)}, nil
}

// Narrow returns the same number tagged with the narrower width target.
// It fails whenever the current width exceeds target, regardless of the number itself.
func (v Value) Narrow(target uint) (Value, error) {
	if err := shared.ValidateBitWidth(target); err != nil {
		return Value{}, err
	}
	if uint(v.width) > target {
		return Value{}, &shared.ConversionError{From: uint(v.width), To: target}
	}
	return Value{value: v.Get(), width: uint8(target)}, nil
}

func (v Value) Uint8() (uint8, error) {
	if v.width > Uint8Width {
		return 0, &shared.ConversionError{From: uint(v.width), To: Uint8Width}
	}
	return uint8(v.Get()), nil
}

func (v Value) Uint16() (uint16, error) {
	if v.width > Uint16Width {
		return 0, &shared.ConversionError{From: uint(v.width), To: Uint16Width}
	}
	return uint16(v.Get()), nil
}

func (v Value) Uint32() uint32 {
	return v.Get()
}

func (v Value) Equal(other Value) bool {
	return v.Get() == other.Get() && v.width == other.width
}

// Hash returns a hash of both the number and the width.
func (v Value) Hash() uint64 {
	var buf [5]byte
	binary.LittleEndian.PutUint32(buf[:4], v.Get())
	buf[4] = v.width
	return xxh3.Hash(buf[:])
}

func (v Value) String() string {
	return fmt.Sprintf("Value: %d, BitWidth: %d", v.Get(), v.width)
}

func checkRange(value uint32, width uint) error {
	if width < shared.MaxBitWidth && value > shared.Mask(width) {
		return &shared.RangeError{Param: "value", Value: int64(value), Min: 0, Max: shared.MaxValue(width)}
	}
	return nil
}
