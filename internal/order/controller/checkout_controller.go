package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telar/internal/dto"
	"telar/internal/order/usecase"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, req dto.PlaceOrderRequest, idempotencyKey string) (*usecase.CheckoutResult, error)
}

type CheckoutController struct {
	checkout CheckoutUseCase
	logger   *zap.Logger
}

func NewCheckoutController(checkout CheckoutUseCase, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		checkout: checkout,
		logger:   logger,
	}
}

func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
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

	result, err := c.checkout.Checkout(r.Context(), req, idempotencyKey)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	writeJSON(w, logger, status, dto.CheckoutResponse{
		Success:   true,
		ChargeRef: result.ChargeRef,
		OrderID:   result.OrderID,
	})
}
