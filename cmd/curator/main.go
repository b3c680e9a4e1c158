// Command curator partitions datasets reproducibly and records
// content-addressed dataset versions with provenance.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/curator/internal/adapters/driving/cli"
	"github.com/custodia-labs/curator/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	err := cli.Execute(ctx, buildServices)
	stop()
	if err != nil {
		logger.Debug("exiting: %v", err)
		os.Exit(1)
	}
}
