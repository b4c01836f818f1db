package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/svetlov/catalog/internal/app"
	"github.com/svetlov/catalog/internal/config"
	"github.com/svetlov/catalog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	l := logger.New("catalog", cfg.LogLevel)
	l.Info("starting catalog service",
		slog.String("environment", cfg.Environment),
		slog.String("search_engine", cfg.SearchEngine),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		l.Error("failed to initialize service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		l.Error("service exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
