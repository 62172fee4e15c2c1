package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mebelpos/mebelpos/internal/app"
	"github.com/mebelpos/mebelpos/internal/auth"
	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/customers"
	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/observability"
	"github.com/mebelpos/mebelpos/internal/platform/cache"
	"github.com/mebelpos/mebelpos/internal/platform/db"
	"github.com/mebelpos/mebelpos/internal/pos"
	"github.com/mebelpos/mebelpos/internal/pos/cart"
	"github.com/mebelpos/mebelpos/internal/receipts"
	"github.com/mebelpos/mebelpos/internal/staff"
	"github.com/mebelpos/mebelpos/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	metrics := observability.NewMetrics()

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := &auth.Middleware{Service: authService}

	catalogService := catalog.NewService(
		catalog.NewRepository(pool),
		catalog.NewCache(redisClient, 5*time.Minute),
	)
	customersService := customers.NewService(customers.NewRepository(pool))
	debtsService := debts.NewService(debts.NewRepository(pool))
	receiptsRepo := receipts.NewRepository(pool)
	staffService := staff.NewService(staff.NewRepository(pool), receiptsRepo)

	jobClient := jobs.NewClient(cfg.RedisAddr)
	defer jobClient.Close()

	posService := pos.NewService(pos.ServiceParams{
		Logger:   logger,
		Store:    cart.NewStore(redisClient, cfg.CartTTL),
		Products: catalogService,
		Debts:    debtsService,
		Receipts: receiptsRepo,
		Notifier: jobClient,
		Metrics:  metrics,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		CatalogHandler:   catalog.NewHandler(logger, catalogService),
		CustomersHandler: customers.NewHandler(logger, customersService),
		DebtsHandler:     debts.NewHandler(logger, debtsService),
		POSHandler:       pos.NewHandler(logger, posService),
		ReceiptsHandler:  receipts.NewHandler(logger, receiptsRepo),
		StaffHandler:     staff.NewHandler(logger, staffService),
		JobHandler:       jobs.NewHandler(logger, cfg.RedisAddr),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
