package shared

import (
	"math"
	"math/bits"
	"os"
)

const (
	MinBitWidth = 1
	MaxBitWidth = 32

	OwnerReadWrite     = os.FileMode(0o600)
	OwnerReadWriteExec = os.FileMode(0o700)
)

// ValidateBitWidth indicates whether a given entry bit width is supported.
func ValidateBitWidth(width uint) error {
	if width < MinBitWidth || width > MaxBitWidth {
		return &RangeError{Param: "BitWidth", Value: int64(width), Min: MinBitWidth, Max: MaxBitWidth}
	}
	return nil
}

// Mask returns a mask of the width LS bits. width is assumed to be valid.
func Mask(width uint) uint32 {
	return uint32(1<<width - 1)
}

// MaxValue returns the largest value representable in width bits.
func MaxValue(width uint) int64 {
	return int64(Mask(width))
}

// MaxCount returns the largest number of entries of width bits whose packed size fits in an int.
// width is assumed to be valid.
func MaxCount(width uint) int {
	return (math.MaxInt - 7) / int(width)
}

// ValidateCount indicates whether count entries of width bits can be held by a buffer.
func ValidateCount(width uint, count uint64) error {
	if limit := MaxCount(width); count > uint64(limit) {
		return &RangeError{Param: "count", Value: clampInt64(count), Min: 0, Max: int64(limit)}
	}
	return nil
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// NumBytes returns the number of bytes needed to pack count entries of width bits each.
func NumBytes(width uint, count int) int {
	return (int(width)*count + 7) / 8
}

// NumBits returns the minimal number of bits required to represent v; at least 1.
func NumBits(v uint64) int {
	if v == 0 {
		return 1
	}
	return bits.Len64(v)
}
