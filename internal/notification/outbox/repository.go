package outbox

import (
	"context"
	"database/sql"

	"telar/internal/domain"
	"telar/internal/errors"
)

type MySQLOutboxRepository struct {
	db *sql.DB
}

func NewMySQLOutboxRepository(db *sql.DB) *MySQLOutboxRepository {
	return &MySQLOutboxRepository{db: db}
}

func (r *MySQLOutboxRepository) Insert(ctx context.Context, msg *domain.OutboxMessage) (uint, error) {
	query := `
		INSERT INTO NotificationOutbox (orderId, recipient, subject, body, status, attempts)
		VALUES (?, ?, ?, ?, ?, 0)
	`

	result, err := r.db.ExecContext(ctx, query,
		msg.OrderID, msg.Recipient, msg.Subject, msg.Body, domain.OutboxStatusPending,
	)
	if err != nil {
		return 0, errors.NewPersistenceError("inserting outbox message", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewPersistenceError("getting last insert id", err)
	}

	return uint(lastInsertID), nil
}

// Delete removes a pending message. Used only as a compensating action.
func (r *MySQLOutboxRepository) Delete(ctx context.Context, id uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM NotificationOutbox WHERE id = ?`, id)
	if err != nil {
		return errors.NewPersistenceError("deleting outbox message", err)
	}
	return nil
}

func (r *MySQLOutboxRepository) FindPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	query := `
		SELECT id, orderId, recipient, subject, body, status, attempts, lastError, createdAt, sentAt
		FROM NotificationOutbox
		WHERE status = ?
		ORDER BY createdAt ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, domain.OutboxStatusPending, limit)
	if err != nil {
		return nil, errors.NewPersistenceError("querying pending outbox messages", err)
	}
	defer rows.Close()

	var messages []domain.OutboxMessage
	for rows.Next() {
		var msg domain.OutboxMessage
		err := rows.Scan(
			&msg.ID, &msg.OrderID, &msg.Recipient, &msg.Subject, &msg.Body,
			&msg.Status, &msg.Attempts, &msg.LastError, &msg.CreatedAt, &msg.SentAt,
		)
		if err != nil {
			return nil, errors.NewPersistenceError("scanning outbox row", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("iterating outbox rows", err)
	}

	return messages, nil
}

func (r *MySQLOutboxRepository) MarkSent(ctx context.Context, id uint) error {
	query := `UPDATE NotificationOutbox SET status = ?, sentAt = NOW() WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, domain.OutboxStatusSent, id); err != nil {
		return errors.NewPersistenceError("marking outbox message sent", err)
	}
	return nil
}

// RecordFailure bumps the attempt counter and keeps the message PENDING
// until maxAttempts is exhausted, then parks it as FAILED. Status is
// assigned before attempts because MySQL applies SET clauses in order.
func (r *MySQLOutboxRepository) RecordFailure(ctx context.Context, id uint, lastError string, maxAttempts int) error {
	query := `
		UPDATE NotificationOutbox
		SET status = IF(attempts + 1 >= ?, ?, ?),
		    lastError = ?,
		    attempts = attempts + 1
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		maxAttempts, domain.OutboxStatusFailed, domain.OutboxStatusPending, lastError, id,
	)
	if err != nil {
		return errors.NewPersistenceError("recording outbox failure", err)
	}
	return nil
}
