package domain

import "time"

type Product struct {
	ID        int
	Name      string
	Stock     int
	MinStock  int
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelowMinStock reports whether the current stock has fallen under the
// replenishment threshold.
func (p Product) BelowMinStock() bool {
	return p.Stock < p.MinStock
}
