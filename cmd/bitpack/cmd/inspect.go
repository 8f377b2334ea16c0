package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/persistence"
)

var inspectDump bool

// inspectCmd represents the inspect command.
var inspectCmd = &cobra.Command{
	Use:   "inspect PATH",
	Short: "Print the shape and the storage efficiency of a record file or a values stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		buf, err := load(path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		table := tablewriter.NewWriter(out)
		table.SetBorder(true)
		table.AppendBulk(describe(path, buf))
		table.Render()

		if inspectDump {
			return dump(out, path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "dump the raw record or stream metadata")
}

func describe(path string, buf *bitbuffer.Buffer) [][]string {
	packed := uint64(len(buf.Bytes()))
	unpacked := uint64(buf.Len()) * 4

	density := 100.0
	if packed > 0 {
		density = float64(uint64(buf.Len())*uint64(buf.BitWidth())) / float64(packed*8) * 100
	}

	return [][]string{
		{"path", path},
		{"bit width", strconv.FormatUint(uint64(buf.BitWidth()), 10)},
		{"entries", strconv.Itoa(buf.Len())},
		{"packed size", bytefmt.ByteSize(packed)},
		{"unpacked size (uint32)", bytefmt.ByteSize(unpacked)},
		{"density", fmt.Sprintf("%.2f%%", density)},
		{"checksum", fmt.Sprintf("%016x", buf.Checksum())},
	}
}

func dump(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		metadata, err := persistence.LoadStreamMetadata(path)
		if err != nil {
			return err
		}
		spew.Fdump(w, metadata)
		return nil
	}

	rec, err := persistence.LoadRecord(path)
	if err != nil {
		return err
	}
	spew.Fdump(w, rec)
	return nil
}
