// Package main is the entry point for the dhatu CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/f3rmion/dhatu/cmd/dhatu/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
