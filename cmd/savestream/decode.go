package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v86io/savestream"
	"github.com/v86io/savestream/compress"
)

func newDecodeCmd(logger *zap.Logger) *cobra.Command {
	var index int
	var compression string

	cmd := &cobra.Command{
		Use:   "decode <in.savestream> <out_dir>",
		Short: "Write decoded save states to out_dir, one per frame unless --index is given",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outDir := args[0], args[1]

			raw, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}

			codecType, err := parseCompressionType(compression)
			if err != nil {
				return err
			}

			codec, err := compress.CreateCodec(codecType, "decode input")
			if err != nil {
				return err
			}

			container, err := codec.Decompress(raw)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			if cmd.Flags().Changed("index") {
				state, err := savestream.DecodeOne(container, index)
				if err != nil {
					return err
				}

				path := filepath.Join(outDir, fmt.Sprintf("%d.bin", index))

				return os.WriteFile(path, state, 0o644)
			}

			states, err := savestream.Decode(container)
			if err != nil {
				return err
			}

			for i, state := range states {
				path := filepath.Join(outDir, fmt.Sprintf("%d.bin", i))
				if err := os.WriteFile(path, state, 0o644); err != nil {
					return err
				}
			}

			logger.Info("decoded savestream", zap.Int("states", len(states)), zap.String("out_dir", outDir))

			return nil
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "decode only the state at this index")
	cmd.Flags().StringVar(&compression, "compression", "none", "container compression the input was written with: none, zstd, s2, lz4")

	return cmd
}
