package repository

import (
	"context"
	"database/sql"
	"fmt"

	"telar/internal/domain"
	"telar/internal/errors"
)

type MySQLClientRepository struct {
	db *sql.DB
}

func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

func (r *MySQLClientRepository) FindByID(ctx context.Context, id int) (*domain.Client, error) {
	query := `
		SELECT id, name, email, phone, address, createdAt, updatedAt
		FROM Clients
		WHERE id = ?
	`

	var c domain.Client
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("client with id %d not found", id))
	}
	if err != nil {
		return nil, errors.NewPersistenceError("querying client by id", err)
	}

	return &c, nil
}
