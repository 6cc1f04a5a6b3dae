package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelreyna/liquette/cmd/liquette/pkg/commands/root"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
