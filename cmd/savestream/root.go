package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "savestream",
		Short:         "Deduplicate and diff v86 save-state sequences into a single container",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newEncodeCmd(logger),
		newDecodeCmd(logger),
		newTrimCmd(logger),
		newInfoCmd(logger),
	)

	return root
}
