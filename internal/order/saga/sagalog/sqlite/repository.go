// Package sqlite provides a SQLite-backed sagalog.Recorder.
//
// The log lives in a local file separate from the MySQL store: it must stay
// writable while the store is the thing that is failing. WAL mode keeps the
// placement goroutine's writes from blocking concurrent readers.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"telar/internal/order/saga/sagalog"

	// Pure-Go SQLite driver, no CGO required.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS saga_logs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    saga_id       TEXT NOT NULL,
    status        TEXT NOT NULL,
    current_step  TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    updated_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saga_logs_saga_id ON saga_logs(saga_id, updated_at);
`

type Repository struct {
	db *sql.DB
}

func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening saga log: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating saga log schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Append(ctx context.Context, entry sagalog.Entry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saga_logs (saga_id, status, current_step, error_message, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.SagaID, string(entry.Status), entry.CurrentStep, entry.ErrorMsg,
		entry.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("appending saga log entry: %w", err)
	}

	return nil
}

func (r *Repository) FindBySagaID(ctx context.Context, sagaID string) ([]sagalog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT saga_id, status, current_step, error_message, updated_at
		FROM saga_logs
		WHERE saga_id = ?
		ORDER BY id ASC`,
		sagaID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying saga log: %w", err)
	}
	defer rows.Close()

	var entries []sagalog.Entry
	for rows.Next() {
		var entry sagalog.Entry
		var status, updatedAt string
		if err := rows.Scan(&entry.SagaID, &status, &entry.CurrentStep, &entry.ErrorMsg, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning saga log row: %w", err)
		}
		entry.Status = sagalog.Status(status)
		if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			entry.UpdatedAt = ts
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saga log rows: %w", err)
	}

	return entries, nil
}
