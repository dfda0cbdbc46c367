package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	dnrbot "github.com/n-OlegS/dnrbot"
	"github.com/n-OlegS/dnrbot/internal/config"
	"github.com/n-OlegS/dnrbot/internal/handler"
	"github.com/n-OlegS/dnrbot/internal/middleware"
	"github.com/n-OlegS/dnrbot/internal/poller"
	"github.com/n-OlegS/dnrbot/internal/queue"
	"github.com/n-OlegS/dnrbot/internal/repository"
	"github.com/n-OlegS/dnrbot/internal/service"
	"github.com/n-OlegS/dnrbot/internal/telegram"
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
	if err := cfg.ValidateBot(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsFS, err := fs.Sub(dnrbot.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	rdb, err := queue.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	store := repository.New(pool)
	jobs := queue.NewJobQueue(rdb)
	pipeline := queue.NewPipeline(rdb)

	admission := service.NewAdmissionService(pool, store, jobs)
	billing := service.NewBillingService(pool, store, pipeline)

	// Handler pointer for use in the default handler closure.
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleUpdate(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	h = handler.New(handler.Deps{
		Bot:         b,
		Cfg:         cfg,
		Admission:   admission,
		Billing:     billing,
		Sender:      telegram.NewSender(b),
		BotUsername: me.Username,
	})

	// Drain completed summaries and notifications back into chats.
	go poller.New(pipeline, telegram.NewSender(b), admission, config.PollInterval).Run(ctx)

	// Daily billing cycle. One run at startup catches up after downtime.
	go func() {
		billing.RunDaily(ctx)
		ticker := time.NewTicker(config.DeductInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				billing.RunDaily(ctx)
			}
		}
	}()

	// Message-log retention.
	go func() {
		ticker := time.NewTicker(config.RetentionCleanup)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-config.RetentionAge).Unix()
				deleted, err := store.DeleteMessagesBefore(context.Background(), cutoff)
				if err != nil {
					slog.Error("message retention cleanup", "error", err)
				} else if deleted > 0 {
					slog.Info("message retention cleanup", "deleted", deleted)
				}
			}
		}
	}()

	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
