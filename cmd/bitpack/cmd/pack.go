package cmd

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/config"
	"github.com/spacemeshos/bitpack/persistence"
)

var (
	packOut    string
	packStream bool
)

// packCmd represents the pack command.
var packCmd = &cobra.Command{
	Use:   "pack [VALUE...]",
	Short: "Pack values into a bit buffer file",
	Long: `Pack stores the given values, each of --width bits, into a record file.
Values accept a base prefix (0x, 0o, 0b). When no values are given they are read from stdin,
separated by whitespace.

With --stream the values are written to a directory as a sequence of raw values files,
each at most --max-file-size bytes, together with a metadata file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var values []uint32
		var err error
		if len(args) > 0 {
			values, err = parseValues(args)
		} else {
			values, err = scanValues(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		buf, err := packValues(cfg.BitWidth, values)
		if err != nil {
			return err
		}

		opts := []persistence.Option{
			persistence.WithLogger(logger),
			persistence.WithMaxFileSize(cfg.MaxFileSize),
		}

		out := packOut
		if packStream {
			if out == "" {
				out = cfg.DataDir
			}
			if err := persistence.SaveStream(out, buf, opts...); err != nil {
				return err
			}
		} else {
			if out == "" {
				out = filepath.Join(cfg.DataDir, config.DefaultRecordFileName)
			}
			if err := persistence.Save(out, buf, opts...); err != nil {
				return err
			}
		}

		logger.Debug("cli: pack completed", zap.String("out", out), zap.Int("count", buf.Len()))
		fmt.Fprintf(cmd.OutOrStdout(), "packed %d x %d-bit values into %d bytes: %s\n",
			buf.Len(), buf.BitWidth(), len(buf.Bytes()), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().Uint("width", config.DefaultBitWidth, "bit width of every value (1 to 32)")
	packCmd.Flags().Uint64("max-file-size", config.DefaultMaxFileSize, "max size of every file of a values stream, in bytes")
	packCmd.Flags().StringVarP(&packOut, "out", "o", "", "output file, or directory with --stream (defaults to the datadir)")
	packCmd.Flags().BoolVar(&packStream, "stream", false, "write a split values stream directory instead of a single record file")
}

func packValues(width uint, values []uint32) (*bitbuffer.Buffer, error) {
	buf, err := bitbuffer.New(width, len(values))
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if err := buf.SetValue(i, v); err != nil {
			return nil, fmt.Errorf("value #%d: %w", i, err)
		}
	}
	return buf, nil
}

func parseValues(args []string) ([]uint32, error) {
	values := make([]uint32, 0, len(args))
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value #%d (%q): %w", i, arg, err)
		}
		values = append(values, uint32(v))
	}
	return values, nil
}

func scanValues(r io.Reader) ([]uint32, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	return parseValues(words)
}
