package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v86io/savestream"
	"github.com/v86io/savestream/compress"
	"github.com/v86io/savestream/format"
	"github.com/v86io/savestream/internal/wire"
)

func newInfoCmd(logger *zap.Logger) *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "info <in.savestream>",
		Short: "Print frame count, serialized size, average bytes per frame, and dedup ratio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			onDisk, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			codecType, err := parseCompressionType(compression)
			if err != nil {
				return err
			}

			codec, err := compress.GetCodec(codecType)
			if err != nil {
				return err
			}

			container, err := codec.Decompress(onDisk)
			if err != nil {
				return err
			}

			stats := compress.CompressionStats{
				Algorithm:      codecType,
				OriginalSize:   int64(len(container)),
				CompressedSize: int64(len(onDisk)),
			}

			n, err := savestream.Length(container)
			if err != nil {
				return err
			}

			avg := 0.0
			if n > 0 {
				avg = float64(len(container)) / float64(n)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "frames: %d\n", n)
			fmt.Fprintf(cmd.OutOrStdout(), "serialized_bytes: %d\n", len(container))
			fmt.Fprintf(cmd.OutOrStdout(), "avg_bytes_per_frame: %.2f\n", avg)

			if codecType != format.CompressionNone {
				fmt.Fprintf(cmd.OutOrStdout(), "on_disk_bytes: %d\n", len(onDisk))
				fmt.Fprintf(cmd.OutOrStdout(), "compression_ratio: %.4f\n", stats.CompressionRatio())
				fmt.Fprintf(cmd.OutOrStdout(), "space_savings_pct: %.2f\n", stats.SpaceSavings())
			}

			// Dedup ratio is 1 - total_distinct_bytes/total_aligned_bytes,
			// computed by walking the deserialized frame deltas directly:
			// no codec operation beyond the Length call above is needed.
			frames, err := wire.Decode(container)
			if err != nil {
				logger.Warn("could not compute dedup ratio", zap.Error(err))
				return nil
			}

			totalAligned := 0
			distinctBytes := 0
			for _, f := range frames {
				totalAligned += len(f.SuperSequence) * format.SuperBlockSize
				for _, block := range f.NewBlocks {
					distinctBytes += len(block)
				}
			}

			ratio := 0.0
			if totalAligned > 0 {
				ratio = 1 - float64(distinctBytes)/float64(totalAligned)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "total_aligned_bytes: %d\n", totalAligned)
			fmt.Fprintf(cmd.OutOrStdout(), "total_distinct_bytes: %d\n", distinctBytes)
			fmt.Fprintf(cmd.OutOrStdout(), "dedup_ratio: %.4f\n", ratio)

			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "container compression the input was written with: none, zstd, s2, lz4")

	return cmd
}
