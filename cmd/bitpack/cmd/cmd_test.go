package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/bitpack/persistence"
	"github.com/spacemeshos/bitpack/shared"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestParseValues(t *testing.T) {
	r := require.New(t)

	values, err := parseValues([]string{"0xABC", "0x123", "4095", "0b1111", "0o17"})
	r.NoError(err)
	r.Equal([]uint32{0xABC, 0x123, 4095, 15, 15}, values)

	_, err = parseValues([]string{"1", "-1"})
	r.ErrorContains(err, "invalid value #1")

	_, err = parseValues([]string{"0x100000000"})
	r.Error(err)

	values, err = scanValues(strings.NewReader("1 2\n\t3\n"))
	r.NoError(err)
	r.Equal([]uint32{1, 2, 3}, values)
}

func TestPackValues(t *testing.T) {
	r := require.New(t)

	buf, err := packValues(12, []uint32{0xABC, 0x123, 0xFFF, 0x0F0, 0x0FF})
	r.NoError(err)
	r.Equal([]byte{0xBC, 0x3A, 0x12, 0xFF, 0x0F, 0x0F, 0xFF, 0x00}, buf.Bytes())

	_, err = packValues(4, []uint32{1, 16})
	r.ErrorIs(err, shared.ErrOutOfRange)
	r.ErrorContains(err, "value #1")

	_, err = packValues(0, nil)
	r.ErrorIs(err, shared.ErrOutOfRange)
}

func TestWindow(t *testing.T) {
	r := require.New(t)

	from, to := window(10, 0, 0)
	r.Equal(0, from)
	r.Equal(10, to)

	from, to = window(10, 3, 4)
	r.Equal(3, from)
	r.Equal(7, to)

	from, to = window(10, 8, 4)
	r.Equal(8, from)
	r.Equal(10, to)

	from, to = window(10, 12, 0)
	r.Equal(10, from)
	r.Equal(10, to)

	from, _ = window(10, -1, 0)
	r.Equal(0, from)
}

func TestFormatHex(t *testing.T) {
	r := require.New(t)

	r.Equal("0x1", formatHex(1, 1))
	r.Equal("0x0ABC", formatHex(0xABC, 13))
	r.Equal("0xABC", formatHex(0xABC, 12))
	r.Equal("0xFFFFFFFF", formatHex(0xFFFFFFFF, 32))
}

func TestFormatBits(t *testing.T) {
	r := require.New(t)

	r.Equal("001111010101", formatBits(0xABC, 12, false))
	r.Equal("101010111100", formatBits(0xABC, 12, true))
	r.Equal("1", formatBits(1, 1, false))
	r.Equal("0100", formatBits(2, 4, false))
}

func TestPackUnpackRecord(t *testing.T) {
	r := require.New(t)

	datadir := t.TempDir()
	path := filepath.Join(datadir, "sample.bpk")

	out := execute(t, "", "pack", "--datadir", datadir, "--width", "12", "--out", path,
		"0xABC", "0x123", "0xFFF", "0x0F0", "0x0FF")
	r.Contains(out, "packed 5 x 12-bit values into 8 bytes")

	buf, err := persistence.Load(path)
	r.NoError(err)
	r.Equal([]uint32{0xABC, 0x123, 0xFFF, 0x0F0, 0x0FF}, buf.Values())

	out = execute(t, "", "unpack", "--datadir", datadir, "--bits", path)
	r.Contains(out, "001111010101")
	r.Contains(out, "0xABC")
	r.Contains(out, "2748")
	r.Contains(out, "0x0FF")

	out = execute(t, "", "unpack", "--datadir", datadir, "--bits", "--msb-first", path)
	r.Contains(out, "101010111100")
	r.NotContains(out, "001111010101")

	out = execute(t, "", "unpack", "--datadir", datadir, "--msb-first=false", path)
	r.Contains(out, "001111010101")

	out = execute(t, "", "inspect", "--datadir", datadir, "--dump", path)
	r.Contains(out, "93.75%")
	r.Contains(out, "BitWidth")
}

func TestPackUnpackStream(t *testing.T) {
	r := require.New(t)

	datadir := t.TempDir()
	dir := filepath.Join(datadir, "stream")

	var stdin strings.Builder
	for i := 0; i < 100; i++ {
		stdin.WriteString("7 ")
	}

	execute(t, stdin.String(), "pack", "--datadir", datadir, "--width", "3",
		"--stream", "--max-file-size", "8", "--out", dir)

	buf, err := persistence.LoadStream(dir)
	r.NoError(err)
	r.Equal(100, buf.Len())
	for _, v := range buf.Values() {
		r.EqualValues(7, v)
	}

	metadata, err := persistence.LoadStreamMetadata(dir)
	r.NoError(err)
	r.EqualValues(7, metadata.Layout.NumFiles)

	out := execute(t, "", "unpack", "--datadir", datadir, "--from", "98", "--limit", "5", dir)
	r.Contains(out, "98")
	r.Contains(out, "99")
	r.NotContains(out, "100")
}

func TestBench(t *testing.T) {
	r := require.New(t)

	results, err := runBench(context.Background(), 100, 4)
	r.NoError(err)
	r.Len(results, shared.MaxBitWidth)
	for i, res := range results {
		r.EqualValues(i+1, res.width)
		r.Equal(shared.NumBytes(res.width, 100), res.size)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runBench(ctx, 100, 4)
	r.ErrorIs(err, context.Canceled)
}

func TestNormalizeFlag(t *testing.T) {
	r := require.New(t)

	r.EqualValues("max-file-size", normalizeFlag(nil, "maxFileSize"))
	r.EqualValues("max-file-size", normalizeFlag(nil, "max_file_size"))
	r.EqualValues("max-file-size", normalizeFlag(nil, "max-file-size"))
	r.EqualValues("datadir", normalizeFlag(nil, "datadir"))
}

func TestLoadConfig(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "bitpack.yaml")
	r.NoError(os.WriteFile(path, []byte("width: 5\nmax-file-size: 1024\nlog-level: debug\n"), shared.OwnerReadWrite))

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	newCmd := func(args ...string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().Uint("width", 12, "")
		c.Flags().Uint64("max-file-size", 1<<26, "")
		c.Flags().String("log-level", "info", "")
		r.NoError(c.Flags().Parse(args))
		return c
	}

	// Flags override the config file, which overrides the defaults.
	cfg, err := loadConfig(newCmd("--max-file-size", "2048"))
	r.NoError(err)
	r.EqualValues(5, cfg.BitWidth)
	r.EqualValues(2048, cfg.MaxFileSize)
	r.Equal("debug", cfg.LogLevel)

	_, err = loadConfig(newCmd("--width", "40"))
	r.ErrorIs(err, shared.ErrOutOfRange)

	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = loadConfig(newCmd())
	r.Error(err)
}
