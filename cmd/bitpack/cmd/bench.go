package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/config"
	"github.com/spacemeshos/bitpack/shared"
)

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure packing and unpacking throughput for every bit width",
	Long: `Bench packs --bench-count random values for every bit width from 1 to 32, unpacks them,
streams them through the bit stream encoder and decoder, and verifies the round trip.
Widths are benchmarked concurrently by --bench-workers workers, each with its own buffer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := runBench(cmd.Context(), cfg.BenchCount, cfg.BenchWorkers)
		if err != nil {
			return err
		}

		data := make([][]string, 0, len(results))
		for _, r := range results {
			data = append(data, r.row())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nBENCHMARKS: count=%v, workers=%v\n", humanize.Comma(int64(cfg.BenchCount)), cfg.BenchWorkers)
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"width", "packed", "pack", "unpack", "encode", "decode", "ns/value"})
		table.SetBorder(true)
		table.AppendBulk(data)
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().Int("bench-count", config.DefaultBenchCount, "number of values per bit width")
	benchCmd.Flags().Int("bench-workers", config.DefaultBenchWorkers, "number of bit widths benchmarked concurrently")
}

type benchResult struct {
	width  uint
	count  int
	size   int
	pack   time.Duration
	unpack time.Duration
	encode time.Duration
	decode time.Duration
}

func (r benchResult) row() []string {
	perValue := "-"
	if r.count > 0 {
		total := r.pack + r.unpack
		perValue = strconv.FormatFloat(float64(total.Nanoseconds())/float64(r.count), 'f', 2, 64)
	}

	return []string{
		strconv.FormatUint(uint64(r.width), 10),
		humanize.Bytes(uint64(r.size)),
		r.pack.Round(time.Microsecond).String(),
		r.unpack.Round(time.Microsecond).String(),
		r.encode.Round(time.Microsecond).String(),
		r.decode.Round(time.Microsecond).String(),
		perValue,
	}
}

func runBench(ctx context.Context, count, workers int) ([]benchResult, error) {
	results := make([]benchResult, shared.MaxBitWidth)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for width := uint(shared.MinBitWidth); width <= shared.MaxBitWidth; width++ {
		width := width
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, err := benchWidth(width, count)
			if err != nil {
				return fmt.Errorf("width %d: %w", width, err)
			}
			results[width-shared.MinBitWidth] = r

			logger.Debug("cli: bench width completed",
				zap.Uint("width", width),
				zap.Duration("pack", r.pack),
				zap.Duration("unpack", r.unpack),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func benchWidth(width uint, count int) (benchResult, error) {
	rnd := rand.New(rand.NewSource(int64(width)))
	mask := shared.Mask(width)
	values := make([]uint32, count)
	for i := range values {
		values[i] = rnd.Uint32() & mask
	}

	r := benchResult{width: width, count: count}

	t := time.Now()
	buf, err := bitbuffer.Generate(width, count, func(i int) (uint32, error) {
		return values[i], nil
	})
	if err != nil {
		return r, err
	}
	r.pack = time.Since(t)
	r.size = len(buf.Bytes())

	t = time.Now()
	unpacked := buf.Values()
	r.unpack = time.Since(t)

	for i, v := range unpacked {
		if v != values[i] {
			return r, fmt.Errorf("value #%d mismatch; expected: %d, found: %d", i, values[i], v)
		}
	}

	var w bytes.Buffer
	w.Grow(r.size)
	t = time.Now()
	if _, err := buf.WriteTo(&w); err != nil {
		return r, err
	}
	r.encode = time.Since(t)

	t = time.Now()
	decoded, err := bitbuffer.Decode(&w, width, count)
	if err != nil {
		return r, err
	}
	r.decode = time.Since(t)

	if !decoded.Equal(buf) {
		return r, fmt.Errorf("decoded buffer mismatch")
	}
	return r, nil
}
