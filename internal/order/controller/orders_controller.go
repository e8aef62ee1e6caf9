package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"telar/internal/domain"
	"telar/internal/dto"
	"telar/internal/order/usecase"
)

// IdempotencyKeyHeader carries the client-generated token that makes
// resubmitted placement requests safe.
const IdempotencyKeyHeader = "Idempotency-Key"

type PlaceOrderUseCase interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest, idempotencyKey string) (*usecase.PlacementResult, error)
}

type OrderQueryService interface {
	List(ctx context.Context, query usecase.ListOrdersQuery) (*usecase.OrderPage, error)
	Get(ctx context.Context, id uint) (*usecase.OrderDetail, error)
}

type OrdersController struct {
	placeOrder PlaceOrderUseCase
	queries    OrderQueryService
	logger     *zap.Logger
}

func NewOrdersController(placeOrder PlaceOrderUseCase, queries OrderQueryService, logger *zap.Logger) *OrdersController {
	return &OrdersController{
		placeOrder: placeOrder,
		queries:    queries,
		logger:     logger,
	}
}

func (c *OrdersController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		writeJSON(w, logger, http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "request body must be valid JSON",
		})
		return
	}

	idempotencyKey := r.Header.Get(IdempotencyKeyHeader)

	result, err := c.placeOrder.PlaceOrder(r.Context(), req, idempotencyKey)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	writeJSON(w, logger, status, dto.PlaceOrderResponse{
		Success: true,
		Data:    toOrderDTO(result.Order),
	})
}

func (c *OrdersController) ListOrders(w http.ResponseWriter, r *http.Request) {
	logger := c.logger

	query := usecase.ListOrdersQuery{
		Status:   r.URL.Query().Get("estado"),
		Priority: r.URL.Query().Get("prioridad"),
		Search:   r.URL.Query().Get("buscar"),
	}

	if v := r.URL.Query().Get("cliente_id"); v != "" {
		clientID, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, dto.ErrorResponse{
				Success: false,
				Error:   "cliente_id must be an integer",
			})
			return
		}
		query.ClientID = clientID
	}

	if v := r.URL.Query().Get("desde"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, dto.ErrorResponse{
				Success: false,
				Error:   "desde must be a date in YYYY-MM-DD format",
			})
			return
		}
		query.CreatedFrom = &from
	}

	if v := r.URL.Query().Get("hasta"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, dto.ErrorResponse{
				Success: false,
				Error:   "hasta must be a date in YYYY-MM-DD format",
			})
			return
		}
		// Inclusive upper bound: the whole day counts.
		end := to.Add(24*time.Hour - time.Nanosecond)
		query.CreatedTo = &end
	}

	query.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	query.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := c.queries.List(r.Context(), query)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	orders := make([]dto.OrderDTO, len(page.Orders))
	for i := range page.Orders {
		orders[i] = toOrderDTO(&page.Orders[i])
	}

	writeJSON(w, logger, http.StatusOK, dto.OrderListResponse{
		Success: true,
		Data:    orders,
		Total:   page.Total,
		Page:    page.Page,
		Limit:   page.Limit,
	})
}

func (c *OrdersController) GetOrder(w http.ResponseWriter, r *http.Request) {
	logger := c.logger

	orderIDStr := chi.URLParam(r, "pedidoId")
	orderID, err := strconv.ParseUint(orderIDStr, 10, 64)
	if err != nil {
		writeJSON(w, logger, http.StatusBadRequest, dto.ErrorResponse{
			Success: false,
			Error:   "pedidoId must be a positive integer",
		})
		return
	}

	detail, err := c.queries.Get(r.Context(), uint(orderID))
	if err != nil {
		writeError(w, logger, err)
		return
	}

	response := dto.OrderDetailDTO{
		OrderDTO: toOrderDTO(detail.Order),
		Lines:    toLineDTOs(detail.Lines),
	}
	if detail.Client != nil {
		response.Client = &dto.ClientDTO{
			ID:      detail.Client.ID,
			Name:    detail.Client.Name,
			Email:   detail.Client.Email,
			Phone:   detail.Client.Phone,
			Address: detail.Client.Address,
		}
	}

	writeJSON(w, logger, http.StatusOK, dto.OrderDetailResponse{Success: true, Data: response})
}

func toOrderDTO(order *domain.Order) dto.OrderDTO {
	out := dto.OrderDTO{
		ID:         order.ID,
		ClientID:   order.ClientID,
		Status:     order.Status,
		Priority:   order.Priority,
		NetTotal:   order.NetTotal,
		TaxAmount:  order.TaxAmount,
		GrossTotal: order.GrossTotal,
		CreatedBy:  order.CreatedBy,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.DeliveryDate != nil {
		formatted := order.DeliveryDate.Format("2006-01-02")
		out.DeliveryDate = &formatted
	}
	return out
}

func toLineDTOs(lines []domain.OrderLine) []dto.OrderLineDTO {
	out := make([]dto.OrderLineDTO, len(lines))
	for i, line := range lines {
		out[i] = dto.OrderLineDTO{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
			Size:      line.Size,
			Color:     line.Color,
			Note:      line.Note,
		}
	}
	return out
}
