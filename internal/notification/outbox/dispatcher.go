// Package outbox delivers customer notifications asynchronously. A pending
// row is written by the placement saga; this dispatcher polls, sends, and
// tracks delivery separately from order success — a dropped email is
// retried, and even a permanently failed one never unwinds the order.
package outbox

import (
	"context"
	"time"

	"go.uber.org/zap"

	"telar/internal/domain"
	"telar/internal/infrastructure/metrics"
	"telar/internal/notification"
)

const claimBatchSize = 20

type Repository interface {
	FindPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkSent(ctx context.Context, id uint) error
	RecordFailure(ctx context.Context, id uint, lastError string, maxAttempts int) error
}

type Dispatcher struct {
	repo        Repository
	transport   notification.Transport
	logger      *zap.Logger
	interval    time.Duration
	maxAttempts int
}

func NewDispatcher(repo Repository, transport notification.Transport, logger *zap.Logger, interval time.Duration, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		repo:        repo,
		transport:   transport,
		logger:      logger,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// Run polls for pending messages until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			d.Drain(ctx)
		}
	}
}

// Drain processes one batch of pending messages.
func (d *Dispatcher) Drain(ctx context.Context) {
	messages, err := d.repo.FindPending(ctx, claimBatchSize)
	if err != nil {
		d.logger.Error("fetching pending notifications", zap.Error(err))
		return
	}

	for _, msg := range messages {
		err := d.transport.Send(ctx, notification.Message{
			Recipient: msg.Recipient,
			Subject:   msg.Subject,
			Body:      msg.Body,
		})
		if err != nil {
			metrics.NotificationsFailed.Inc()
			d.logger.Warn("notification delivery failed",
				zap.Uint("messageId", msg.ID),
				zap.Uint("orderId", msg.OrderID),
				zap.Int("attempts", msg.Attempts+1),
				zap.Error(err),
			)
			if err := d.repo.RecordFailure(ctx, msg.ID, err.Error(), d.maxAttempts); err != nil {
				d.logger.Error("recording notification failure", zap.Uint("messageId", msg.ID), zap.Error(err))
			}
			continue
		}

		metrics.NotificationsSent.Inc()
		if err := d.repo.MarkSent(ctx, msg.ID); err != nil {
			d.logger.Error("marking notification sent", zap.Uint("messageId", msg.ID), zap.Error(err))
		}
	}
}
