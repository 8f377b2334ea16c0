package persistence

import (
	"go.uber.org/zap"

	"github.com/spacemeshos/bitpack/config"
)

type options struct {
	logger      *zap.Logger
	maxFileSize uint64
	checkSpace  bool
}

func defaultOptions() *options {
	return &options{
		logger:      zap.NewNop(),
		maxFileSize: config.DefaultMaxFileSize,
		checkSpace:  true,
	}
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxFileSize sets the size limit of every file of a values stream.
// A file holds at least 8 values, so size must be at least the bit width.
func WithMaxFileSize(size uint64) Option {
	return func(o *options) {
		o.maxFileSize = size
	}
}

// WithoutSpaceCheck skips verifying the free disk space before writing.
func WithoutSpaceCheck() Option {
	return func(o *options) {
		o.checkSpace = false
	}
}
