// Package jobs owns background task definitions and the asynq worker that
// processes them.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskTypeReceiptIssued delivers a receipt summary to Telegram.
	TaskTypeReceiptIssued = "notify:receipt"
	// TaskTypeDebtReminder posts the daily open-debt digest.
	TaskTypeDebtReminder = "notify:debt_reminder"
	// TaskTypeLowStockScan posts products running low on stock.
	TaskTypeLowStockScan = "inventory:low_stock"
)

// Queue names, highest priority first.
const (
	QueueNotify  = "notify"
	QueueDefault = "default"
)

// ReceiptIssuedPayload identifies the receipt to announce.
type ReceiptIssuedPayload struct {
	ReceiptID int64 `json:"receipt_id"`
}

// NewReceiptIssuedTask builds the notification task for a persisted receipt.
func NewReceiptIssuedTask(receiptID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ReceiptIssuedPayload{ReceiptID: receiptID})
	if err != nil {
		return nil, fmt.Errorf("jobs: encode payload: %w", err)
	}
	return asynq.NewTask(TaskTypeReceiptIssued, payload, asynq.Queue(QueueNotify), asynq.MaxRetry(5)), nil
}

// NewDebtReminderTask builds the scheduled debt digest task.
func NewDebtReminderTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDebtReminder, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
}

// NewLowStockScanTask builds the scheduled low-stock scan task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(3))
}
