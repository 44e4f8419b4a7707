package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/momentumlabs/docflow/app/worker"
)

func main() {
	app, err := worker.NewApp()
	if err != nil {
		slog.Error("worker: failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		slog.Error("worker: server error", "error", err)
	}

	if err := app.Stop(); err != nil {
		slog.Error("worker: shutdown error", "error", err)
		os.Exit(1)
	}
}
