package shared

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange      = errors.New("out of range")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrLengthMismatch  = errors.New("length mismatch")
	ErrConversion      = errors.New("lossy conversion")
)

// RangeError is returned when a bit width, a count or a value falls outside its declared domain.
type RangeError struct {
	Param string
	Value int64
	Min   int64
	Max   int64
}

func (err *RangeError) Error() string {
	return fmt.Sprintf("invalid `%v`; expected: [%d, %d], given: %d", err.Param, err.Min, err.Max, err.Value)
}

func (err *RangeError) Is(target error) bool { return target == ErrOutOfRange }

type IndexError struct {
	Index int
	Count int
}

func (err *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", err.Index, err.Count)
}

func (err *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// LengthMismatchError is returned when raw data doesn't match the size required by a buffer shape.
type LengthMismatchError struct {
	BitWidth uint
	Count    int
	Expected int
	Found    int
}

func (err *LengthMismatchError) Error() string {
	return fmt.Sprintf("data length mismatch for %d x %d-bit entries; expected: %d bytes, found: %d",
		err.Count, err.BitWidth, err.Expected, err.Found)
}

func (err *LengthMismatchError) Is(target error) bool { return target == ErrLengthMismatch }

// ConversionError is returned when converting a value to a narrower width would drop bits.
type ConversionError struct {
	From uint
	To   uint
}

func (err *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %d-bit value to %d bits", err.From, err.To)
}

func (err *ConversionError) Is(target error) bool { return target == ErrConversion }
