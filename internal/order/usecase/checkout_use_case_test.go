package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"telar/internal/domain"
	apperrors "telar/internal/errors"
	"telar/internal/order/saga"
	"telar/internal/order/service"
	"telar/internal/payment"
)

// fakeProcessor approves or declines every charge and records refunds.
type fakeProcessor struct {
	mu       sync.Mutex
	approved bool
	reason   string
	chargeN  int
	refunds  []string
}

func (p *fakeProcessor) Charge(_ context.Context, _ payment.ChargeRequest) (*payment.ChargeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chargeN++
	if !p.approved {
		return &payment.ChargeResult{Approved: false, Reason: p.reason}, nil
	}
	return &payment.ChargeResult{
		Approved:  true,
		Reference: fmt.Sprintf("ch_%04d", p.chargeN),
	}, nil
}

func (p *fakeProcessor) Refund(_ context.Context, reference string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds = append(p.refunds, reference)
	return nil
}

type checkoutFixture struct {
	*placementFixture
	processor *fakeProcessor
	useCase   *CheckoutUseCase
}

func newCheckoutFixture(approved bool) *checkoutFixture {
	base := newPlacementFixture()
	processor := &fakeProcessor{approved: approved, reason: "insufficient funds"}

	return &checkoutFixture{
		placementFixture: base,
		processor:        processor,
		useCase: NewCheckoutUseCase(
			base.orderRepo, base.lineRepo, base.productRepo, base.clientRepo, base.outboxRepo,
			processor,
			saga.NewRunner(zap.NewNop(), nil),
			service.DefaultTaxRate,
			zap.NewNop(),
		),
	}
}

func TestCheckout_ApprovedPayment(t *testing.T) {
	f := newCheckoutFixture(true)

	result, err := f.useCase.Checkout(context.Background(), validRequest(), "")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if result.ChargeRef == "" {
		t.Error("expected a charge reference")
	}
	if result.OrderID == 0 {
		t.Error("expected a persisted order id")
	}

	order, err := f.orderRepo.FindByID(context.Background(), result.OrderID)
	if err != nil {
		t.Fatalf("order not found after checkout: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected status PENDING, got %s", order.Status)
	}

	if got := f.productRepo.stockOf(1); got != 8 {
		t.Errorf("expected stock of product 1 to be 8, got %d", got)
	}
	if len(f.processor.refunds) != 0 {
		t.Errorf("no refund expected, got %v", f.processor.refunds)
	}
	if f.outboxRepo.count() != 1 {
		t.Errorf("expected 1 pending notification, got %d", f.outboxRepo.count())
	}
}

func TestCheckout_DeclinedPaymentCancelsOrderWithoutRollback(t *testing.T) {
	f := newCheckoutFixture(false)

	_, err := f.useCase.Checkout(context.Background(), validRequest(), "")
	pde, ok := apperrors.IsPaymentDeclinedError(err)
	if !ok {
		t.Fatalf("expected PaymentDeclinedError, got %v", err)
	}
	if pde.Reason != "insufficient funds" {
		t.Errorf("expected decline reason preserved, got %q", pde.Reason)
	}

	// The order survives as an auditable CANCELLED record: header and
	// lines stay, stock and notifications are never touched.
	if f.orderRepo.count() != 1 {
		t.Fatalf("expected the cancelled order to remain, got %d orders", f.orderRepo.count())
	}
	var order *domain.Order
	for _, o := range f.orderRepo.orders {
		order = o
	}
	if order.Status != domain.OrderStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", order.Status)
	}
	if lines := f.lineRepo.lines[order.ID]; len(lines) != 2 {
		t.Errorf("expected order lines kept, got %d", len(lines))
	}
	if got := f.productRepo.stockOf(1); got != 10 {
		t.Errorf("stock must be untouched, got %d", got)
	}
	if f.outboxRepo.count() != 0 {
		t.Errorf("no notification expected, got %d", f.outboxRepo.count())
	}
	if len(f.processor.refunds) != 0 {
		t.Errorf("nothing was captured, so nothing to refund; got %v", f.processor.refunds)
	}
}

func TestCheckout_StockFailureAfterCaptureRefundsCharge(t *testing.T) {
	f := newCheckoutFixture(true)

	req := validRequest()
	req.Lines[1].Quantity = 30 // product 2 only has 20 in stock

	_, err := f.useCase.Checkout(context.Background(), req, "")
	if _, ok := apperrors.IsStockInsufficientError(err); !ok {
		t.Fatalf("expected StockInsufficientError, got %v", err)
	}

	if len(f.processor.refunds) != 1 {
		t.Fatalf("expected the captured charge to be refunded, got %v", f.processor.refunds)
	}
	if f.orderRepo.count() != 0 {
		t.Error("order must be fully rolled back")
	}
	if got := f.productRepo.stockOf(1); got != 10 {
		t.Errorf("product 1 decrement must be restored, got %d", got)
	}
	if f.outboxRepo.count() != 0 {
		t.Errorf("no notification expected, got %d", f.outboxRepo.count())
	}
}

func TestCheckout_ValidationFailureSkipsGateway(t *testing.T) {
	f := newCheckoutFixture(true)

	req := validRequest()
	req.Lines = nil

	_, err := f.useCase.Checkout(context.Background(), req, "")
	if _, ok := apperrors.IsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if f.processor.chargeN != 0 {
		t.Errorf("gateway must not be called for invalid requests, got %d charges", f.processor.chargeN)
	}
}

func TestCheckout_WithIdempotencyKeyReturnsExistingOrder(t *testing.T) {
	f := newCheckoutFixture(true)
	key := "storefront-token-7"

	first, err := f.useCase.Checkout(context.Background(), validRequest(), key)
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	second, err := f.useCase.Checkout(context.Background(), validRequest(), key)
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}

	if !second.Duplicate {
		t.Error("second checkout should be flagged as duplicate")
	}
	if second.OrderID != first.OrderID {
		t.Errorf("expected original order %d, got %d", first.OrderID, second.OrderID)
	}
	if f.processor.chargeN != 1 {
		t.Errorf("client must be charged once, got %d charges", f.processor.chargeN)
	}
}
