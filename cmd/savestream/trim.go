package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v86io/savestream"
)

func newTrimCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trim <in.savestream> <out.savestream> <start> [<end>]",
		Short: "Extract the half-open range [start, end) of a savestream into a new container",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := args[0], args[1]

			start, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}

			container, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}

			end := -1
			if len(args) == 4 {
				end, err = strconv.Atoi(args[3])
				if err != nil {
					return err
				}
			} else {
				end, err = savestream.Length(container)
				if err != nil {
					return err
				}
			}

			trimmed, err := savestream.Trim(container, start, end)
			if err != nil {
				return err
			}

			if err := os.WriteFile(outPath, trimmed, 0o644); err != nil {
				return err
			}

			logger.Info("trimmed savestream", zap.Int("start", start), zap.Int("end", end))

			return nil
		},
	}

	return cmd
}
