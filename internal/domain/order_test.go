package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Creation(t *testing.T) {
	createdAt := time.Now()
	updatedAt := time.Now()
	deliveryDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	key := "client-token-1"
	createdBy := "admin@telar.example"

	order := Order{
		ID:             1,
		ClientID:       10,
		Status:         OrderStatusPending,
		Priority:       OrderPriorityHigh,
		DeliveryDate:   &deliveryDate,
		NetTotal:       35.00,
		TaxAmount:      6.30,
		GrossTotal:     41.30,
		IdempotencyKey: &key,
		CreatedBy:      &createdBy,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}

	assert.Equal(t, uint(1), order.ID)
	assert.Equal(t, 10, order.ClientID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, OrderPriorityHigh, order.Priority)
	assert.Equal(t, &deliveryDate, order.DeliveryDate)
	assert.Equal(t, 35.00, order.NetTotal)
	assert.Equal(t, 6.30, order.TaxAmount)
	assert.Equal(t, 41.30, order.GrossTotal)
	assert.Equal(t, &key, order.IdempotencyKey)
	assert.Equal(t, &createdBy, order.CreatedBy)
	assert.Equal(t, createdAt, order.CreatedAt)
	assert.Equal(t, updatedAt, order.UpdatedAt)
}

func TestOrder_NullableFields(t *testing.T) {
	order := Order{
		ID:       1,
		ClientID: 10,
		Status:   OrderStatusPending,
		Priority: OrderPriorityNormal,
	}

	assert.Nil(t, order.DeliveryDate)
	assert.Nil(t, order.IdempotencyKey)
	assert.Nil(t, order.CreatedBy)
}

func TestIsValidPriority(t *testing.T) {
	tests := []struct {
		priority string
		want     bool
	}{
		{OrderPriorityLow, true},
		{OrderPriorityNormal, true},
		{OrderPriorityHigh, true},
		{OrderPriorityUrgent, true},
		{"", false},
		{"normal", false},
		{"MAXIMA", false},
	}

	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPriority(tt.priority))
		})
	}
}
