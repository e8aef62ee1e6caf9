package usecase

import (
	"context"
	"time"

	"telar/internal/domain"
	apperrors "telar/internal/errors"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// OrderQueryService serves the listing and detail views. Pure reads, offset
// pagination, newest first; every call re-queries the store.
type OrderQueryService struct {
	orderRepo  OrderRepository
	lineRepo   OrderLineRepository
	clientRepo ClientRepository
}

func NewOrderQueryService(orderRepo OrderRepository, lineRepo OrderLineRepository, clientRepo ClientRepository) *OrderQueryService {
	return &OrderQueryService{
		orderRepo:  orderRepo,
		lineRepo:   lineRepo,
		clientRepo: clientRepo,
	}
}

type ListOrdersQuery struct {
	Status      string
	Priority    string
	ClientID    int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Search      string
	Page        int
	Limit       int
}

type OrderPage struct {
	Orders []domain.Order
	Total  int
	Page   int
	Limit  int
}

func (s *OrderQueryService) List(ctx context.Context, query ListOrdersQuery) (*OrderPage, error) {
	if query.Status != "" {
		switch query.Status {
		case domain.OrderStatusPending, domain.OrderStatusInProcess, domain.OrderStatusCompleted,
			domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		default:
			return nil, apperrors.NewValidationError("invalid estado filter", apperrors.ValidationDetail{
				Field:   "estado",
				Message: "estado must be a known order status",
			})
		}
	}

	if query.Priority != "" && !domain.IsValidPriority(query.Priority) {
		return nil, apperrors.NewValidationError("invalid prioridad filter", apperrors.ValidationDetail{
			Field:   "prioridad",
			Message: "prioridad must be a known order priority",
		})
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	orders, total, err := s.orderRepo.List(ctx, domain.OrderFilters{
		Status:      query.Status,
		Priority:    query.Priority,
		ClientID:    query.ClientID,
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
		Search:      query.Search,
	}, page, limit)
	if err != nil {
		return nil, err
	}

	return &OrderPage{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

type OrderDetail struct {
	Order  *domain.Order
	Lines  []domain.OrderLine
	Client *domain.Client
}

func (s *OrderQueryService) Get(ctx context.Context, id uint) (*OrderDetail, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines, err := s.lineRepo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{Order: order, Lines: lines}

	// The client record may have been removed since the order was placed;
	// the detail view still renders without it.
	if client, err := s.clientRepo.FindByID(ctx, order.ClientID); err == nil {
		detail.Client = client
	}

	return detail, nil
}
