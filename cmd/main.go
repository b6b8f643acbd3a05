package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"scroll-stitch/config"
	telegram "scroll-stitch/internal/api"
	app "scroll-stitch/internal/application"
	"scroll-stitch/internal/container"
	"scroll-stitch/internal/domain/port"
	"scroll-stitch/internal/infrastructure/ann"
	"scroll-stitch/internal/infrastructure/storage"
	"scroll-stitch/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_TOKEN is required")
		os.Exit(1)
	}

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	deps := app.CaptureDeps{
		Extractor: vision.NewExtractor(),
		Builder:   ann.NewBuilder(),
		Codec:     vision.NewCodec(),
	}
	if cfg.Dedupe {
		deps.NewFilter = func() port.DuplicateFilter {
			return vision.NewDeduplicator(vision.DefaultDuplicateDistance)
		}
	}

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, deps, app.CaptureSettings{
		Options:       cfg.StitchOptions,
		ThumbnailSize: cfg.ThumbnailSize,
	})

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("bot is running")
	if err := bot.Run(ctx); err != nil {
		slog.Error("bot error", "error", err)
		os.Exit(1)
	}
	slog.Info("bot stopped")
}
