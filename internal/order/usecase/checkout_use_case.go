package usecase

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telar/internal/domain"
	"telar/internal/dto"
	apperrors "telar/internal/errors"
	"telar/internal/infrastructure/metrics"
	"telar/internal/order/repository"
	"telar/internal/order/saga"
	"telar/internal/payment"
)

// CheckoutUseCase is the public storefront variant: the same placement saga
// with a payment capture between line insertion and stock adjustment.
//
// A declined payment is the one failure that does not roll the saga back:
// the order is kept with status CANCELLED so the decline stays auditable,
// and stock is never touched because the payment step runs first. Any other
// failure compensates fully, including refunding a captured charge.
type CheckoutUseCase struct {
	orderRepo   OrderRepository
	lineRepo    OrderLineRepository
	productRepo ProductRepository
	clientRepo  ClientRepository
	outboxRepo  OutboxRepository
	processor   payment.Processor
	runner      SagaRunner
	taxRate     float64
	logger      *zap.Logger
}

func NewCheckoutUseCase(
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	productRepo ProductRepository,
	clientRepo ClientRepository,
	outboxRepo OutboxRepository,
	processor payment.Processor,
	runner SagaRunner,
	taxRate float64,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orderRepo:   orderRepo,
		lineRepo:    lineRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		outboxRepo:  outboxRepo,
		processor:   processor,
		runner:      runner,
		taxRate:     taxRate,
		logger:      logger,
	}
}

type CheckoutResult struct {
	OrderID   uint
	ChargeRef string
	Duplicate bool
}

func (uc *CheckoutUseCase) Checkout(ctx context.Context, req dto.PlaceOrderRequest, idempotencyKey string) (*CheckoutResult, error) {
	if err := validatePlaceOrder(req); err != nil {
		metrics.OrdersFailed.WithLabelValues("validation").Inc()
		return nil, err
	}

	client, err := uc.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		metrics.OrdersFailed.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	if idempotencyKey != "" {
		if existing, err := uc.orderRepo.FindByIdempotencyKey(ctx, idempotencyKey); err == nil {
			uc.logger.Info("duplicate checkout short-circuited",
				zap.String("idempotencyKey", idempotencyKey),
				zap.Uint("orderId", existing.ID),
			)
			return &CheckoutResult{OrderID: existing.ID, Duplicate: true}, nil
		}
	}

	state, err := buildPlacement(req, uc.taxRate, idempotencyKey)
	if err != nil {
		metrics.OrdersFailed.WithLabelValues("validation").Inc()
		return nil, err
	}

	sagaID := uuid.New().String()
	uc.logger.Info("checkout started",
		zap.String("sagaId", sagaID),
		zap.Int("clientId", req.ClientID),
		zap.Float64("grossTotal", state.Order.GrossTotal),
	)

	steps := []saga.Step{
		saga.NewCreateHeaderStep(uc.orderRepo, state),
		saga.NewCreateLinesStep(uc.lineRepo, state),
		saga.NewChargePaymentStep(uc.processor, state),
		saga.NewDecrementStockStep(uc.productRepo, state, uc.logger),
		saga.NewEnqueueNotificationStep(uc.outboxRepo, state, client.Email, confirmationFor(client)),
	}

	completed, err := uc.runner.Execute(ctx, sagaID, steps)
	if err != nil {
		if pde, ok := apperrors.IsPaymentDeclinedError(err); ok {
			if cancelErr := uc.orderRepo.UpdateStatus(ctx, state.OrderID, domain.OrderStatusCancelled); cancelErr != nil {
				uc.logger.Error("cancelling order after declined payment",
					zap.Uint("orderId", state.OrderID),
					zap.Error(cancelErr),
				)
			}
			metrics.OrdersFailed.WithLabelValues("payment_declined").Inc()
			uc.logger.Warn("checkout payment declined",
				zap.String("sagaId", sagaID),
				zap.Uint("orderId", state.OrderID),
				zap.String("reason", pde.Reason),
			)
			return nil, pde
		}

		if stderrors.Is(err, repository.ErrDuplicateKey) && idempotencyKey != "" {
			if existing, lookupErr := uc.orderRepo.FindByIdempotencyKey(ctx, idempotencyKey); lookupErr == nil {
				return &CheckoutResult{OrderID: existing.ID, Duplicate: true}, nil
			}
		}

		uc.runner.Rollback(ctx, sagaID, completed)
		metrics.OrdersCompensated.Inc()
		metrics.OrdersFailed.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	uc.logger.Info("checkout completed",
		zap.String("sagaId", sagaID),
		zap.Uint("orderId", state.OrderID),
		zap.String("chargeRef", state.ChargeRef),
	)

	return &CheckoutResult{OrderID: state.OrderID, ChargeRef: state.ChargeRef}, nil
}
