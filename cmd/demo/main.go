package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/3lvia/fault/config"
	"github.com/3lvia/fault/internal/runtime"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	runtime.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, errChan := Serve(cfg)

	select {
	case err := <-errChan:
		slog.ErrorContext(ctx, "demo server failed", "error", err)
	case <-ctx.Done():
	}

	shutdown(context.Background())
}
