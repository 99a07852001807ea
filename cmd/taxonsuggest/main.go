// CLI entry point for the taxon suggestion engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
