package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mebelpos/mebelpos/internal/app"
	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/notify"
	"github.com/mebelpos/mebelpos/internal/platform/db"
	"github.com/mebelpos/mebelpos/internal/receipts"
	"github.com/mebelpos/mebelpos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	var sender jobs.Sender
	if cfg.TelegramEnabled() {
		sender = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	} else {
		logger.Warn("telegram is not configured, notifications will be dropped")
	}

	worker := jobs.NewWorker(jobs.WorkerParams{
		Logger:            logger,
		RedisAddr:         cfg.RedisAddr,
		Sender:            sender,
		Receipts:          receipts.NewRepository(pool),
		Debts:             debts.NewService(debts.NewRepository(pool)),
		Catalog:           catalog.NewService(catalog.NewRepository(pool), nil),
		LowStockThreshold: cfg.LowStockThreshold,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down worker")
		worker.Shutdown()
	}()

	logger.Info("worker started", slog.String("redis", cfg.RedisAddr))
	return worker.Run()
}
