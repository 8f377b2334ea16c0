// Package bitstream provides wrappers for io.Writer and io.Reader to allow
// bit-granularity access to the stream, following the LSB pattern, where
// least-significant bits are written/read first.
//
// Stream bit 8k+b is bit b of byte k, so a sequence of WriteUint calls with
// a fixed numBits produces exactly the byte layout of a packed buffer.
package bitstream

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)
