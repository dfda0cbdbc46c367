package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/n-OlegS/dnrbot/internal/config"
	"github.com/n-OlegS/dnrbot/internal/queue"
	"github.com/n-OlegS/dnrbot/internal/service"
	"github.com/n-OlegS/dnrbot/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := queue.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	summarizer, err := service.NewSummarizerService(cfg)
	if err != nil {
		slog.Error("failed to init summarizer", "error", err)
		os.Exit(1)
	}

	w := worker.New(queue.NewJobQueue(rdb), queue.NewPipeline(rdb), summarizer, cfg.AdminChatID)
	w.Run(ctx)

	slog.Info("worker stopped gracefully")
}
