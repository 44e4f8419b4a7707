package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/momentumlabs/docflow/app/ingest"
)

func main() {
	app, err := ingest.NewApp()
	if err != nil {
		slog.Error("ingest: failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		slog.Error("ingest: server error", "error", err)
	}

	if err := app.Stop(); err != nil {
		slog.Error("ingest: shutdown error", "error", err)
		os.Exit(1)
	}
}
