package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spacemeshos/smutil"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/bitpack/shared"
)

const (
	MinMaxFileSize = 8

	MaxBenchCount = 1 << 24
)

const (
	DefaultDataDirName    = "data"
	DefaultRecordFileName = "values.bpk"
	DefaultBitWidth       = 12
	DefaultLogLevel       = "info"

	// 64MB per stream file.
	DefaultMaxFileSize = 1 << 26

	DefaultBenchCount = 1 << 16
)

var (
	DefaultDataDir      = filepath.Join(smutil.GetUserHomeDirectory(), "bitpack", DefaultDataDirName)
	DefaultBenchWorkers = runtime.NumCPU()
)

type Config struct {
	DataDir     string `mapstructure:"datadir"`
	BitWidth    uint   `mapstructure:"width"`
	MaxFileSize uint64 `mapstructure:"max-file-size"`
	LogLevel    string `mapstructure:"log-level"`

	BenchCount   int `mapstructure:"bench-count"`
	BenchWorkers int `mapstructure:"bench-workers"`
}

func (cfg *Config) Validate() error {
	if err := shared.ValidateBitWidth(cfg.BitWidth); err != nil {
		return err
	}

	if cfg.MaxFileSize < MinMaxFileSize {
		return fmt.Errorf("invalid `MaxFileSize`; expected: >= %d, given: %d", MinMaxFileSize, cfg.MaxFileSize)
	}

	// A stream file holds at least 8 values.
	if cfg.MaxFileSize < uint64(cfg.BitWidth) {
		return fmt.Errorf("invalid `MaxFileSize`; expected: >= %d for %d-bit values, given: %d", cfg.BitWidth, cfg.BitWidth, cfg.MaxFileSize)
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid `LogLevel`: %w", err)
	}

	if cfg.BenchCount < 0 || cfg.BenchCount > MaxBenchCount {
		return fmt.Errorf("invalid `BenchCount`; expected: [0, %d], given: %d", MaxBenchCount, cfg.BenchCount)
	}

	if cfg.BenchWorkers < 1 {
		return fmt.Errorf("invalid `BenchWorkers`; expected: >= 1, given: %d", cfg.BenchWorkers)
	}

	return nil
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     DefaultDataDir,
		BitWidth:    DefaultBitWidth,
		MaxFileSize: DefaultMaxFileSize,
		LogLevel:    DefaultLogLevel,

		BenchCount:   DefaultBenchCount,
		BenchWorkers: DefaultBenchWorkers,
	}
}
