package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"telar/internal/domain"
	"telar/internal/errors"
)

// ErrDuplicateKey is returned when an insert hits the unique index on the
// idempotency key. Callers resolve it by fetching the original order.
var ErrDuplicateKey = stderrors.New("duplicate idempotency key")

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, order *domain.Order) (uint, error) {
	query := `
		INSERT INTO Orders (clientId, status, priority, deliveryDate,
		                    netTotal, taxAmount, grossTotal, idempotencyKey, createdBy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		order.ClientID, order.Status, order.Priority, order.DeliveryDate,
		order.NetTotal, order.TaxAmount, order.GrossTotal, order.IdempotencyKey, order.CreatedBy,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return 0, ErrDuplicateKey
		}
		return 0, errors.NewPersistenceError("inserting order header", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewPersistenceError("getting last insert id", err)
	}

	return uint(lastInsertID), nil
}

// Delete removes an order header. Used only as a compensating action.
func (r *MySQLOrderRepository) Delete(ctx context.Context, id uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return errors.NewPersistenceError("deleting order header", err)
	}
	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, clientId, status, priority, deliveryDate,
		       netTotal, taxAmount, grossTotal, idempotencyKey, createdBy,
		       createdAt, updatedAt
		FROM Orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.ClientID, &order.Status, &order.Priority, &order.DeliveryDate,
		&order.NetTotal, &order.TaxAmount, &order.GrossTotal, &order.IdempotencyKey, &order.CreatedBy,
		&order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, errors.NewPersistenceError("querying order by id", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	query := `
		SELECT id, clientId, status, priority, deliveryDate,
		       netTotal, taxAmount, grossTotal, idempotencyKey, createdBy,
		       createdAt, updatedAt
		FROM Orders
		WHERE idempotencyKey = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&order.ID, &order.ClientID, &order.Status, &order.Priority, &order.DeliveryDate,
		&order.NetTotal, &order.TaxAmount, &order.GrossTotal, &order.IdempotencyKey, &order.CreatedBy,
		&order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("no order for idempotency key")
	}
	if err != nil {
		return nil, errors.NewPersistenceError("querying order by idempotency key", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE Orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return errors.NewPersistenceError("updating order status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewPersistenceError("getting rows affected", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

func (r *MySQLOrderRepository) List(ctx context.Context, filters domain.OrderFilters, page, limit int) ([]domain.Order, int, error) {
	var conditions []string
	var args []interface{}

	if filters.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filters.Status)
	}
	if filters.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, filters.Priority)
	}
	if filters.ClientID > 0 {
		conditions = append(conditions, "clientId = ?")
		args = append(args, filters.ClientID)
	}
	if filters.CreatedFrom != nil {
		conditions = append(conditions, "createdAt >= ?")
		args = append(args, filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		conditions = append(conditions, "createdAt <= ?")
		args = append(args, filters.CreatedTo)
	}
	if filters.Search != "" {
		conditions = append(conditions, "CAST(id AS CHAR) LIKE ?")
		args = append(args, "%"+filters.Search+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM Orders" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewPersistenceError("counting orders", err)
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT id, clientId, status, priority, deliveryDate,
		       netTotal, taxAmount, grossTotal, idempotencyKey, createdBy,
		       createdAt, updatedAt
		FROM Orders` + where + `
		ORDER BY createdAt DESC, id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.NewPersistenceError("listing orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.ClientID, &order.Status, &order.Priority, &order.DeliveryDate,
			&order.NetTotal, &order.TaxAmount, &order.GrossTotal, &order.IdempotencyKey, &order.CreatedBy,
			&order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, 0, errors.NewPersistenceError("scanning order row", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewPersistenceError("iterating order rows", err)
	}

	return orders, total, nil
}
