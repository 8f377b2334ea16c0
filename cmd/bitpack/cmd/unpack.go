package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/persistence"
)

var (
	unpackFrom  int
	unpackLimit int
	unpackBits  bool
	unpackMSB   bool
)

// unpackCmd represents the unpack command.
var unpackCmd = &cobra.Command{
	Use:   "unpack PATH",
	Short: "Print the values of a record file or a values stream directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := load(args[0])
		if err != nil {
			return err
		}

		from, to := window(buf.Len(), unpackFrom, unpackLimit)

		header := []string{"index", "hex", "decimal"}
		if unpackBits {
			if unpackMSB {
				header = append(header, "bits (msb first)")
			} else {
				header = append(header, "stream bits")
			}
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader(header)
		table.SetBorder(true)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for i := from; i < to; i++ {
			v, err := buf.Value(i)
			if err != nil {
				return err
			}
			row := []string{
				strconv.Itoa(i),
				formatHex(v, buf.BitWidth()),
				strconv.FormatUint(uint64(v), 10),
			}
			if unpackBits {
				row = append(row, formatBits(v, buf.BitWidth(), unpackMSB))
			}
			table.Append(row)
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)

	unpackCmd.Flags().IntVar(&unpackFrom, "from", 0, "index of the first value to print")
	unpackCmd.Flags().IntVar(&unpackLimit, "limit", 0, "max number of values to print (0 for all)")
	unpackCmd.Flags().BoolVar(&unpackBits, "bits", false, "print the bits of every value in stream order, LSB first")
	unpackCmd.Flags().BoolVar(&unpackMSB, "msb-first", false, "with --bits, print the bits MSB first")
}

// load reads a packed buffer from a record file, or from a values stream if path is a directory.
func load(path string) (*bitbuffer.Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	opts := []persistence.Option{persistence.WithLogger(logger)}
	if info.IsDir() {
		return persistence.LoadStream(path, opts...)
	}
	return persistence.Load(path, opts...)
}

// window clamps [from, from+limit) to [0, count).
func window(count, from, limit int) (int, int) {
	if from < 0 {
		from = 0
	}
	if from > count {
		from = count
	}
	to := count
	if limit > 0 && limit < count-from {
		to = from + limit
	}
	return from, to
}

// formatHex prints v with as many hex digits as its width requires.
func formatHex(v uint32, width uint) string {
	return fmt.Sprintf("0x%0*X", int(width+3)/4, v)
}
