package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"telar/internal/order"
)

func NewRouter(orderModule *order.Module, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pedidos", orderModule.Orders.PlaceOrder)
		r.Get("/pedidos", orderModule.Orders.ListOrders)
		r.Get("/pedidos/{pedidoId}", orderModule.Orders.GetOrder)
		r.Post("/checkout", orderModule.Checkout.Checkout)
	})

	return r
}
