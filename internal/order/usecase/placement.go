package usecase

import (
	"context"
	"strconv"
	"time"

	"telar/internal/domain"
	"telar/internal/dto"
	apperrors "telar/internal/errors"
	"telar/internal/order/saga"
	"telar/internal/order/service"
)

// Repositories consumed by the placement workflows. Defined here so the
// coordinators depend on behavior, not on the MySQL implementations.

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) (uint, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	List(ctx context.Context, filters domain.OrderFilters, page, limit int) ([]domain.Order, int, error)
}

type OrderLineRepository interface {
	BulkInsert(ctx context.Context, orderID uint, lines []domain.OrderLine) error
	DeleteByOrderID(ctx context.Context, orderID uint) error
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderLine, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID, quantity int) error
	IncrementStock(ctx context.Context, productID, quantity int) error
}

type ClientRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Client, error)
}

type OutboxRepository interface {
	Insert(ctx context.Context, msg *domain.OutboxMessage) (uint, error)
	Delete(ctx context.Context, id uint) error
}

type SagaRunner interface {
	Execute(ctx context.Context, sagaID string, steps []saga.Step) ([]saga.Step, error)
	Rollback(ctx context.Context, sagaID string, steps []saga.Step)
}

const deliveryDateLayout = "2006-01-02"

var priorityByWire = map[string]string{
	dto.PriorityLow:    domain.OrderPriorityLow,
	dto.PriorityNormal: domain.OrderPriorityNormal,
	dto.PriorityHigh:   domain.OrderPriorityHigh,
	dto.PriorityUrgent: domain.OrderPriorityUrgent,
}

func validatePlaceOrder(req dto.PlaceOrderRequest) error {
	var details []apperrors.ValidationDetail

	if req.ClientID <= 0 {
		msg := "cliente_id must be a positive integer"
		if req.ClientID == 0 {
			msg = "cliente_id is required"
		}
		details = append(details, apperrors.ValidationDetail{
			Field:   "cliente_id",
			Message: msg,
		})
	}

	if req.Priority != "" {
		if _, ok := priorityByWire[req.Priority]; !ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   "prioridad",
				Message: "prioridad must be one of BAJA, NORMAL, ALTA, URGENTE",
			})
		}
	}

	if req.DeliveryDate != nil {
		if _, err := time.Parse(deliveryDateLayout, *req.DeliveryDate); err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "fecha_entrega",
				Message: "fecha_entrega must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(req.Lines) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "detalles",
			Message: "detalles must not be empty",
		})
	}

	for idx, line := range req.Lines {
		if line.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "detalles[" + strconv.Itoa(idx) + "].producto_id",
				Message: "producto_id must be a positive integer",
			})
		}
		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "detalles[" + strconv.Itoa(idx) + "].cantidad",
				Message: "cantidad must be a positive integer",
			})
		}
		if line.UnitPrice < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "detalles[" + strconv.Itoa(idx) + "].precio_unitario",
				Message: "precio_unitario must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// buildPlacement turns a validated request into the header and lines the
// saga will write. Totals are recomputed server-side; the stored net total
// always equals the sum of line subtotals.
func buildPlacement(req dto.PlaceOrderRequest, taxRate float64, idempotencyKey string) (*saga.State, error) {
	amounts := make([]service.LineAmount, len(req.Lines))
	for i, line := range req.Lines {
		amounts[i] = service.LineAmount{Quantity: line.Quantity, UnitPrice: line.UnitPrice}
	}

	totals, err := service.CalculateTotals(amounts, taxRate)
	if err != nil {
		return nil, err
	}

	priority := domain.OrderPriorityNormal
	if req.Priority != "" {
		priority = priorityByWire[req.Priority]
	}

	var deliveryDate *time.Time
	if req.DeliveryDate != nil {
		parsed, err := time.Parse(deliveryDateLayout, *req.DeliveryDate)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid fecha_entrega", apperrors.ValidationDetail{
				Field:   "fecha_entrega",
				Message: "fecha_entrega must be a date in YYYY-MM-DD format",
			})
		}
		deliveryDate = &parsed
	}

	order := &domain.Order{
		ClientID:     req.ClientID,
		Status:       domain.OrderStatusPending,
		Priority:     priority,
		DeliveryDate: deliveryDate,
		NetTotal:     totals.NetTotal,
		TaxAmount:    totals.TaxAmount,
		GrossTotal:   totals.GrossTotal,
		CreatedBy:    req.CreatedBy,
	}
	if idempotencyKey != "" {
		order.IdempotencyKey = &idempotencyKey
	}

	lines := make([]domain.OrderLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = domain.OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  totals.Subtotals[i],
			Size:      line.Size,
			Color:     line.Color,
			Note:      line.Note,
		}
	}

	return &saga.State{Order: order, Lines: lines}, nil
}

// failureReason buckets an error for the failure counter.
func failureReason(err error) string {
	switch {
	case isValidation(err):
		return "validation"
	case isStock(err):
		return "stock_insufficient"
	case isPaymentDeclined(err):
		return "payment_declined"
	case isPersistence(err):
		return "persistence"
	default:
		return "internal"
	}
}

func isValidation(err error) bool {
	_, ok := apperrors.IsValidationError(err)
	return ok
}

func isStock(err error) bool {
	_, ok := apperrors.IsStockInsufficientError(err)
	return ok
}

func isPaymentDeclined(err error) bool {
	_, ok := apperrors.IsPaymentDeclinedError(err)
	return ok
}

func isPersistence(err error) bool {
	_, ok := apperrors.IsPersistenceError(err)
	return ok
}
