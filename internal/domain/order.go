package domain

import "time"

type Order struct {
	ID             uint
	ClientID       int
	Status         string
	Priority       string
	DeliveryDate   *time.Time
	NetTotal       float64
	TaxAmount      float64
	GrossTotal     float64
	IdempotencyKey *string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	OrderStatusPending   = "PENDING"
	OrderStatusInProcess = "IN_PROCESS"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	OrderPriorityLow    = "LOW"
	OrderPriorityNormal = "NORMAL"
	OrderPriorityHigh   = "HIGH"
	OrderPriorityUrgent = "URGENT"
)

// OrderFilters narrows order listings. Zero values mean "no filter".
type OrderFilters struct {
	Status      string
	Priority    string
	ClientID    int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	// Search matches against the order id as text.
	Search string
}

func IsValidPriority(p string) bool {
	switch p {
	case OrderPriorityLow, OrderPriorityNormal, OrderPriorityHigh, OrderPriorityUrgent:
		return true
	}
	return false
}
