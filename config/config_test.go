package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitpack/config"
	"github.com/spacemeshos/bitpack/shared"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.BitWidth = 0
	require.ErrorIs(t, cfg.Validate(), shared.ErrOutOfRange)

	cfg = config.DefaultConfig()
	cfg.BitWidth = 33
	require.ErrorIs(t, cfg.Validate(), shared.ErrOutOfRange)

	cfg = config.DefaultConfig()
	cfg.MaxFileSize = config.MinMaxFileSize - 1
	require.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.BitWidth = 32
	cfg.MaxFileSize = 31
	require.Error(t, cfg.Validate())
	cfg.MaxFileSize = 32
	require.NoError(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.LogLevel = "verbose"
	require.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.BenchWorkers = 0
	require.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.BenchCount = config.MaxBenchCount + 1
	require.Error(t, cfg.Validate())
}

func TestDeriveFilesLayout(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	// 12-bit values, 15 bytes per file: 10 values fit, rounded down to 8.
	layout := config.DeriveFilesLayout(12, 20, 15)
	r.Equal(config.FilesLayout{NumFiles: 3, FileNumValues: 8, LastFileNumValues: 4}, layout)
	r.EqualValues(8, layout.NumValues(0))
	r.EqualValues(8, layout.NumValues(1))
	r.EqualValues(4, layout.NumValues(2))

	layout = config.DeriveFilesLayout(12, 16, 12)
	r.Equal(config.FilesLayout{NumFiles: 2, FileNumValues: 8, LastFileNumValues: 8}, layout)

	layout = config.DeriveFilesLayout(1, 5, 1<<20)
	r.Equal(config.FilesLayout{NumFiles: 1, FileNumValues: 1 << 23, LastFileNumValues: 5}, layout)

	// Files can't be smaller than 8 values.
	layout = config.DeriveFilesLayout(32, 9, 8)
	r.Equal(config.FilesLayout{NumFiles: 2, FileNumValues: 8, LastFileNumValues: 1}, layout)

	layout = config.DeriveFilesLayout(12, 0, 15)
	r.EqualValues(1, layout.NumFiles)
	r.Zero(layout.NumValues(0))
}
