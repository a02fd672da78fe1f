package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v86io/savestream"
	"github.com/v86io/savestream/compress"
	"github.com/v86io/savestream/format"
	"github.com/v86io/savestream/internal/pool"
)

func newEncodeCmd(logger *zap.Logger) *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "encode <in1> <in2> ... <out.savestream>",
		Short: "Read raw save states in argument order and write a savestream container",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath := args[len(args)-1]
			inPaths := args[:len(args)-1]

			states := make([][]byte, 0, len(inPaths))
			for _, p := range inPaths {
				data, err := os.ReadFile(p)
				if err != nil {
					return err
				}

				states = append(states, data)
			}

			container, err := savestream.Encode(states)
			if err != nil {
				return err
			}

			codecType, err := parseCompressionType(compression)
			if err != nil {
				return err
			}

			codec, err := compress.CreateCodec(codecType, "encode output")
			if err != nil {
				return err
			}

			out, err := codec.Compress(container)
			if err != nil {
				return err
			}

			bb := pool.GetFrameBuffer()
			defer pool.PutFrameBuffer(bb)
			bb.MustWrite(out)

			if err := os.WriteFile(outPath, bb.Bytes(), 0o644); err != nil {
				return err
			}

			logger.Info("encoded savestream",
				zap.Int("states", len(states)),
				zap.Int("container_bytes", len(container)),
				zap.Int("written_bytes", len(out)),
				zap.String("compression", codecType.String()),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "none", "container compression: none, zstd, s2, lz4")

	return cmd
}

func parseCompressionType(name string) (format.CompressionType, error) {
	switch name {
	case "none", "":
		return format.CompressionNone, nil
	case "zstd":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, errUnknownCompression(name)
	}
}

type errUnknownCompression string

func (e errUnknownCompression) Error() string {
	return "unknown compression type: " + string(e)
}
