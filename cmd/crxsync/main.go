package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/indaco/crxsync/internal/cli"
	"github.com/indaco/crxsync/internal/config"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCLI builds the command tree and runs it with args. Interrupts cancel
// the pass between extensions and abort an in-flight download.
func runCLI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.New(config.Default()).Run(ctx, args)
}
