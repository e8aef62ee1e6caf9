package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telar_orders_placed_total",
		Help: "Orders successfully placed.",
	})

	OrdersFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telar_orders_failed_total",
		Help: "Order placements that ended in an error, by failure class.",
	}, []string{"reason"})

	OrdersCompensated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telar_orders_compensated_total",
		Help: "Order placements rolled back by the saga runner.",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telar_notifications_sent_total",
		Help: "Outbox notifications delivered.",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telar_notifications_failed_total",
		Help: "Outbox delivery attempts that failed.",
	})
)
