package domain

import "time"

// OutboxMessage is a pending customer notification written in the same
// workflow that created the order, delivered asynchronously by the outbox
// dispatcher.
type OutboxMessage struct {
	ID        uint
	OrderID   uint
	Recipient string
	Subject   string
	Body      string
	Status    string
	Attempts  int
	LastError *string
	CreatedAt time.Time
	SentAt    *time.Time
}

const (
	OutboxStatusPending = "PENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)
