package usecase

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"telar/internal/domain"
	"telar/internal/dto"
	"telar/internal/infrastructure/metrics"
	"telar/internal/notification"
	"telar/internal/order/repository"
	"telar/internal/order/saga"
)

// PlaceOrderUseCase is the internal "create order" workflow: header, lines,
// stock, notification — no payment step. Every step has a compensating
// action, so a failure anywhere leaves no partial state behind.
type PlaceOrderUseCase struct {
	orderRepo   OrderRepository
	lineRepo    OrderLineRepository
	productRepo ProductRepository
	clientRepo  ClientRepository
	outboxRepo  OutboxRepository
	runner      SagaRunner
	taxRate     float64
	logger      *zap.Logger
}

func NewPlaceOrderUseCase(
	orderRepo OrderRepository,
	lineRepo OrderLineRepository,
	productRepo ProductRepository,
	clientRepo ClientRepository,
	outboxRepo OutboxRepository,
	runner SagaRunner,
	taxRate float64,
	logger *zap.Logger,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		orderRepo:   orderRepo,
		lineRepo:    lineRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		outboxRepo:  outboxRepo,
		runner:      runner,
		taxRate:     taxRate,
		logger:      logger,
	}
}

type PlacementResult struct {
	Order *domain.Order
	Lines []domain.OrderLine
	// Duplicate marks a request short-circuited by its idempotency key:
	// the returned order is the one created by the first submission.
	Duplicate bool
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest, idempotencyKey string) (*PlacementResult, error) {
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
			uc.logger.Info("duplicate submission short-circuited",
				zap.String("idempotencyKey", idempotencyKey),
				zap.Uint("orderId", existing.ID),
			)
			return uc.duplicateResult(ctx, existing)
		}
	}

	state, err := buildPlacement(req, uc.taxRate, idempotencyKey)
	if err != nil {
		metrics.OrdersFailed.WithLabelValues("validation").Inc()
		return nil, err
	}

	sagaID := uuid.New().String()
	uc.logger.Info("order placement started",
		zap.String("sagaId", sagaID),
		zap.Int("clientId", req.ClientID),
		zap.Int("lineCount", len(state.Lines)),
	)

	steps := uc.buildSteps(state, client)

	completed, err := uc.runner.Execute(ctx, sagaID, steps)
	if err != nil {
		// An idempotency-key collision between the lookup above and the
		// insert means another request won the race; hand back its order.
		if stderrors.Is(err, repository.ErrDuplicateKey) && idempotencyKey != "" {
			existing, lookupErr := uc.orderRepo.FindByIdempotencyKey(ctx, idempotencyKey)
			if lookupErr == nil {
				return uc.duplicateResult(ctx, existing)
			}
		}

		uc.runner.Rollback(ctx, sagaID, completed)
		metrics.OrdersCompensated.Inc()
		metrics.OrdersFailed.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	created, err := uc.orderRepo.FindByID(ctx, state.OrderID)
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	uc.logger.Info("order placed",
		zap.String("sagaId", sagaID),
		zap.Uint("orderId", state.OrderID),
		zap.Float64("netTotal", created.NetTotal),
		zap.Float64("grossTotal", created.GrossTotal),
	)

	return &PlacementResult{Order: created, Lines: state.Lines}, nil
}

func (uc *PlaceOrderUseCase) buildSteps(state *saga.State, client *domain.Client) []saga.Step {
	return []saga.Step{
		saga.NewCreateHeaderStep(uc.orderRepo, state),
		saga.NewCreateLinesStep(uc.lineRepo, state),
		saga.NewDecrementStockStep(uc.productRepo, state, uc.logger),
		saga.NewEnqueueNotificationStep(uc.outboxRepo, state, client.Email, confirmationFor(client)),
	}
}

func confirmationFor(client *domain.Client) func(state *saga.State) (string, string) {
	return func(state *saga.State) (string, string) {
		return notification.OrderConfirmation(client.Name, state.OrderID, state.Order.GrossTotal)
	}
}

func (uc *PlaceOrderUseCase) duplicateResult(ctx context.Context, order *domain.Order) (*PlacementResult, error) {
	lines, err := uc.lineRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &PlacementResult{Order: order, Lines: lines, Duplicate: true}, nil
}
