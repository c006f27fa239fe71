// Package main is the entry point for the podtrain CLI.
//
// podtrain rents the cheapest GPU instance that satisfies a job's memory
// and price constraints, runs a fine-tuning workflow on it over SSH, and
// downloads the results.
//
// For detailed usage information, run:
//
//	podtrain --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/podtrain/cmd/podtrain/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, commands.ErrorMessage(err))
		os.Exit(1)
	}
}
