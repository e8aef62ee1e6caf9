package saga

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"telar/internal/domain"
	"telar/internal/errors"
	"telar/internal/payment"
)

// State is shared by the steps of one placement run. Earlier steps fill in
// the identifiers that later steps and compensations need.
type State struct {
	Order     *domain.Order
	Lines     []domain.OrderLine
	OrderID   uint
	ChargeRef string
	OutboxID  uint
}

type HeaderRepository interface {
	Insert(ctx context.Context, order *domain.Order) (uint, error)
	Delete(ctx context.Context, id uint) error
}

type LineRepository interface {
	BulkInsert(ctx context.Context, orderID uint, lines []domain.OrderLine) error
	DeleteByOrderID(ctx context.Context, orderID uint) error
}

type StockRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID, quantity int) error
	IncrementStock(ctx context.Context, productID, quantity int) error
}

type OutboxRepository interface {
	Insert(ctx context.Context, msg *domain.OutboxMessage) (uint, error)
	Delete(ctx context.Context, id uint) error
}

// --- CreateHeaderStep ---

type CreateHeaderStep struct {
	repo  HeaderRepository
	state *State
}

func NewCreateHeaderStep(repo HeaderRepository, state *State) *CreateHeaderStep {
	return &CreateHeaderStep{repo: repo, state: state}
}

func (s *CreateHeaderStep) Name() string { return "create_header" }

func (s *CreateHeaderStep) Execute(ctx context.Context) error {
	id, err := s.repo.Insert(ctx, s.state.Order)
	if err != nil {
		return err
	}
	s.state.OrderID = id
	s.state.Order.ID = id
	return nil
}

func (s *CreateHeaderStep) Compensate(ctx context.Context) error {
	if s.state.OrderID == 0 {
		return nil
	}
	return s.repo.Delete(ctx, s.state.OrderID)
}

// --- CreateLinesStep ---

type CreateLinesStep struct {
	repo  LineRepository
	state *State
}

func NewCreateLinesStep(repo LineRepository, state *State) *CreateLinesStep {
	return &CreateLinesStep{repo: repo, state: state}
}

func (s *CreateLinesStep) Name() string { return "create_lines" }

func (s *CreateLinesStep) Execute(ctx context.Context) error {
	for i := range s.state.Lines {
		s.state.Lines[i].OrderID = s.state.OrderID
	}
	return s.repo.BulkInsert(ctx, s.state.OrderID, s.state.Lines)
}

func (s *CreateLinesStep) Compensate(ctx context.Context) error {
	if s.state.OrderID == 0 {
		return nil
	}
	return s.repo.DeleteByOrderID(ctx, s.state.OrderID)
}

// --- ChargePaymentStep ---

type ChargePaymentStep struct {
	processor payment.Processor
	state     *State
}

func NewChargePaymentStep(processor payment.Processor, state *State) *ChargePaymentStep {
	return &ChargePaymentStep{processor: processor, state: state}
}

func (s *ChargePaymentStep) Name() string { return "charge_payment" }

func (s *ChargePaymentStep) Execute(ctx context.Context) error {
	result, err := s.processor.Charge(ctx, payment.ChargeRequest{
		OrderID:  s.state.OrderID,
		ClientID: s.state.Order.ClientID,
		Amount:   s.state.Order.GrossTotal,
	})
	if err != nil {
		return errors.NewInternalError("charging payment", err)
	}

	if !result.Approved {
		return errors.NewPaymentDeclinedError("payment declined", result.Reason)
	}

	s.state.ChargeRef = result.Reference
	return nil
}

func (s *ChargePaymentStep) Compensate(ctx context.Context) error {
	if s.state.ChargeRef == "" {
		return nil
	}
	return s.processor.Refund(ctx, s.state.ChargeRef)
}

// --- DecrementStockStep ---

// DecrementStockStep adjusts inventory line by line in ascending product id
// order. It remembers which decrements were applied so a mid-run failure
// restores exactly those and nothing else.
type DecrementStockStep struct {
	repo    StockRepository
	state   *State
	logger  *zap.Logger
	applied []domain.OrderLine
}

func NewDecrementStockStep(repo StockRepository, state *State, logger *zap.Logger) *DecrementStockStep {
	return &DecrementStockStep{repo: repo, state: state, logger: logger}
}

func (s *DecrementStockStep) Name() string { return "decrement_stock" }

func (s *DecrementStockStep) Execute(ctx context.Context) error {
	for _, line := range sortedByProductID(s.state.Lines) {
		if err := s.repo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return err
		}
		s.applied = append(s.applied, line)

		product, err := s.repo.FindByID(ctx, line.ProductID)
		if err != nil {
			continue
		}
		if product.BelowMinStock() {
			s.logger.Warn("product below minimum stock",
				zap.Int("productId", product.ID),
				zap.Int("stock", product.Stock),
				zap.Int("minStock", product.MinStock),
			)
		}
	}
	return nil
}

func (s *DecrementStockStep) Compensate(ctx context.Context) error {
	var firstErr error
	for i := len(s.applied) - 1; i >= 0; i-- {
		line := s.applied[i]
		if err := s.repo.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ascending product id order keeps concurrent placements from deadlocking
// on the same pair of rows.
func sortedByProductID(lines []domain.OrderLine) []domain.OrderLine {
	sorted := make([]domain.OrderLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	return sorted
}

// --- EnqueueNotificationStep ---

type EnqueueNotificationStep struct {
	repo      OutboxRepository
	state     *State
	recipient string
	// buildMessage runs at execute time, once the order id exists.
	buildMessage func(state *State) (subject, body string)
}

func NewEnqueueNotificationStep(repo OutboxRepository, state *State, recipient string, buildMessage func(state *State) (subject, body string)) *EnqueueNotificationStep {
	return &EnqueueNotificationStep{
		repo:         repo,
		state:        state,
		recipient:    recipient,
		buildMessage: buildMessage,
	}
}

func (s *EnqueueNotificationStep) Name() string { return "enqueue_notification" }

func (s *EnqueueNotificationStep) Execute(ctx context.Context) error {
	subject, body := s.buildMessage(s.state)
	id, err := s.repo.Insert(ctx, &domain.OutboxMessage{
		OrderID:   s.state.OrderID,
		Recipient: s.recipient,
		Subject:   subject,
		Body:      body,
		Status:    domain.OutboxStatusPending,
	})
	if err != nil {
		return err
	}
	s.state.OutboxID = id
	return nil
}

func (s *EnqueueNotificationStep) Compensate(ctx context.Context) error {
	if s.state.OutboxID == 0 {
		return nil
	}
	return s.repo.Delete(ctx, s.state.OutboxID)
}
