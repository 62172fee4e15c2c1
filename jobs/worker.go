package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/notify"
	"github.com/mebelpos/mebelpos/internal/receipts"
)

// Sender delivers formatted messages; nil disables delivery.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// WorkerParams groups worker dependencies.
type WorkerParams struct {
	Logger            *slog.Logger
	RedisAddr         string
	Sender            Sender
	Receipts          receipts.Repository
	Debts             *debts.Service
	Catalog           *catalog.Service
	LowStockThreshold int
}

// Worker runs the asynq server and the cron scheduler in one process.
type Worker struct {
	logger    *slog.Logger
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux

	sender            Sender
	receipts          receipts.Repository
	debts             *debts.Service
	catalog           *catalog.Service
	lowStockThreshold int
}

// NewWorker builds the worker with its task routes and schedule.
func NewWorker(params WorkerParams) *Worker {
	redisOpt := asynq.RedisClientOpt{Addr: params.RedisAddr}

	w := &Worker{
		logger: params.Logger,
		server: asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				QueueNotify:  6,
				QueueDefault: 3,
			},
		}),
		scheduler:         asynq.NewScheduler(redisOpt, nil),
		mux:               asynq.NewServeMux(),
		sender:            params.Sender,
		receipts:          params.Receipts,
		debts:             params.Debts,
		catalog:           params.Catalog,
		lowStockThreshold: params.LowStockThreshold,
	}

	w.mux.HandleFunc(TaskTypeReceiptIssued, w.handleReceiptIssued)
	w.mux.HandleFunc(TaskTypeDebtReminder, w.handleDebtReminder)
	w.mux.HandleFunc(TaskTypeLowStockScan, w.handleLowStockScan)
	return w
}

// Run registers the schedule and blocks processing tasks until Shutdown.
func (w *Worker) Run() error {
	if _, err := w.scheduler.Register("0 9 * * *", NewDebtReminderTask()); err != nil {
		return fmt.Errorf("jobs: register debt reminder: %w", err)
	}
	if _, err := w.scheduler.Register("0 8 * * *", NewLowStockScanTask()); err != nil {
		return fmt.Errorf("jobs: register low stock scan: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("jobs: start scheduler: %w", err)
	}
	return w.server.Run(w.mux)
}

// Shutdown stops the scheduler and drains in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleReceiptIssued(ctx context.Context, task *asynq.Task) error {
	var payload ReceiptIssuedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("jobs: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	receipt, err := w.receipts.Get(ctx, payload.ReceiptID)
	if err != nil {
		return fmt.Errorf("jobs: load receipt %d: %w", payload.ReceiptID, err)
	}
	return w.send(ctx, notify.FormatReceipt(receipt))
}

func (w *Worker) handleDebtReminder(ctx context.Context, _ *asynq.Task) error {
	open, err := w.debts.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("jobs: list open debts: %w", err)
	}
	return w.send(ctx, notify.FormatDebtReminder(open))
}

func (w *Worker) handleLowStockScan(ctx context.Context, _ *asynq.Task) error {
	products, err := w.catalog.ListBelowStock(ctx, w.lowStockThreshold)
	if err != nil {
		return fmt.Errorf("jobs: scan low stock: %w", err)
	}
	text := notify.FormatLowStock(products, w.lowStockThreshold)
	if text == "" {
		return nil
	}
	return w.send(ctx, text)
}

func (w *Worker) send(ctx context.Context, text string) error {
	if w.sender == nil {
		w.logger.Info("telegram disabled, dropping message", slog.Int("length", len(text)))
		return nil
	}
	return w.sender.Send(ctx, text)
}
