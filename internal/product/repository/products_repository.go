package repository

import (
	"context"
	"database/sql"
	"fmt"

	"telar/internal/domain"
	"telar/internal/errors"
)

type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

func (r *MySQLProductRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, stock, minStock, price, createdAt, updatedAt
		FROM Product
		WHERE id = ?
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Stock, &p.MinStock, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, errors.NewPersistenceError("querying product by id", err)
	}

	return &p, nil
}

// DecrementStock subtracts quantity from a product's stock in a single
// conditional statement. Stock can never go negative: a row only matches
// when it still covers the quantity, so concurrent orders for the same
// product serialize on the row and the loser gets StockInsufficientError.
func (r *MySQLProductRepository) DecrementStock(ctx context.Context, productID, quantity int) error {
	query := `UPDATE Product SET stock = stock - ? WHERE id = ? AND stock >= ?`

	result, err := r.db.ExecContext(ctx, query, quantity, productID, quantity)
	if err != nil {
		return errors.NewPersistenceError("decrementing stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewPersistenceError("getting rows affected", err)
	}

	if rowsAffected == 0 {
		return errors.NewStockInsufficientError(productID, quantity)
	}

	return nil
}

// IncrementStock returns quantity to a product's stock. Used as the
// compensating action for DecrementStock.
func (r *MySQLProductRepository) IncrementStock(ctx context.Context, productID, quantity int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE Product SET stock = stock + ? WHERE id = ?`, quantity, productID)
	if err != nil {
		return errors.NewPersistenceError("incrementing stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewPersistenceError("getting rows affected", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}

	return nil
}
