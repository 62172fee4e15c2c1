package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Client enqueues tasks from the API process.
type Client struct {
	client *asynq.Client
}

// NewClient builds an enqueue-only client.
func NewClient(redisAddr string) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// NotifyReceiptIssued enqueues the receipt notification.
func (c *Client) NotifyReceiptIssued(ctx context.Context, receiptID int64) error {
	task, err := NewReceiptIssuedTask(receiptID)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", TaskTypeReceiptIssued, err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}
