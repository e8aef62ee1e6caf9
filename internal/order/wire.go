package order

import (
	"database/sql"

	"go.uber.org/zap"

	clientrepo "telar/internal/client/repository"
	"telar/internal/config"
	"telar/internal/notification/outbox"
	"telar/internal/order/controller"
	orderrepo "telar/internal/order/repository"
	"telar/internal/order/saga"
	"telar/internal/order/saga/sagalog"
	"telar/internal/order/usecase"
	"telar/internal/payment"
	productrepo "telar/internal/product/repository"
)

// Module bundles the HTTP entry points of the order feature.
type Module struct {
	Orders   *controller.OrdersController
	Checkout *controller.CheckoutController
}

func NewModule(db *sql.DB, recorder sagalog.Recorder, cfg *config.Config, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)
	productRepo := productrepo.NewMySQLProductRepository(db)
	clientRepo := clientrepo.NewMySQLClientRepository(db)
	outboxRepo := outbox.NewMySQLOutboxRepository(db)

	runner := saga.NewRunner(logger, recorder)
	gateway := payment.NewHTTPGateway(cfg.Payment.GatewayURL, cfg.Payment.Timeout, logger)

	placeOrder := usecase.NewPlaceOrderUseCase(
		orderRepo, lineRepo, productRepo, clientRepo, outboxRepo,
		runner, cfg.Order.TaxRate, logger,
	)

	checkout := usecase.NewCheckoutUseCase(
		orderRepo, lineRepo, productRepo, clientRepo, outboxRepo,
		gateway, runner, cfg.Order.TaxRate, logger,
	)

	queries := usecase.NewOrderQueryService(orderRepo, lineRepo, clientRepo)

	return &Module{
		Orders:   controller.NewOrdersController(placeOrder, queries, logger),
		Checkout: controller.NewCheckoutController(checkout, logger),
	}
}
