// Command savestream is the command-line front end for the savestream
// codec. It knows nothing of dedup tables or diff ops — it reads files,
// calls into the savestream package, and writes files, per the collaborator
// contract the codec itself does not implement.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "savestream: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
