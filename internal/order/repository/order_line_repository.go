package repository

import (
	"context"
	"database/sql"
	"strings"

	"telar/internal/domain"
	"telar/internal/errors"
)

type MySQLOrderLineRepository struct {
	db *sql.DB
}

func NewMySQLOrderLineRepository(db *sql.DB) *MySQLOrderLineRepository {
	return &MySQLOrderLineRepository{db: db}
}

// BulkInsert writes all lines of an order in one statement so the batch is
// rejected or accepted as a whole.
func (r *MySQLOrderLineRepository) BulkInsert(ctx context.Context, orderID uint, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return errors.NewPersistenceError("no lines to insert", nil)
	}

	placeholders := make([]string, len(lines))
	args := make([]interface{}, 0, len(lines)*8)
	for i, line := range lines {
		placeholders[i] = "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args,
			orderID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
			line.Size, line.Color, line.Note,
		)
	}

	query := `INSERT INTO OrderLines (orderId, productId, quantity, unitPrice, subtotal, size, color, note) VALUES ` +
		strings.Join(placeholders, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.NewPersistenceError("inserting order lines", err)
	}

	return nil
}

// DeleteByOrderID removes all lines of an order. Used only as a
// compensating action.
func (r *MySQLOrderLineRepository) DeleteByOrderID(ctx context.Context, orderID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM OrderLines WHERE orderId = ?`, orderID)
	if err != nil {
		return errors.NewPersistenceError("deleting order lines", err)
	}
	return nil
}

func (r *MySQLOrderLineRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderLine, error) {
	query := `
		SELECT id, orderId, productId, quantity, unitPrice, subtotal, size, color, note
		FROM OrderLines
		WHERE orderId = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, errors.NewPersistenceError("querying order lines", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID, &line.Quantity,
			&line.UnitPrice, &line.Subtotal, &line.Size, &line.Color, &line.Note,
		)
		if err != nil {
			return nil, errors.NewPersistenceError("scanning order line row", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("iterating order line rows", err)
	}

	return lines, nil
}
