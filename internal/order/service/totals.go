package service

import (
	"fmt"
	"math"

	"telar/internal/errors"
)

// DefaultTaxRate is the flat VAT-equivalent applied to every order.
const DefaultTaxRate = 0.18

type LineAmount struct {
	Quantity  int
	UnitPrice float64
}

// Totals carries both tax conventions explicitly. NetTotal always equals
// the sum of line subtotals; GrossTotal is what the customer pays.
type Totals struct {
	Subtotals  []float64
	NetTotal   float64
	TaxAmount  float64
	GrossTotal float64
}

// CalculateTotals computes per-line subtotals and the order totals. Pure:
// it rejects non-positive quantities and negative prices and has no other
// failure mode.
func CalculateTotals(lines []LineAmount, taxRate float64) (*Totals, error) {
	if len(lines) == 0 {
		return nil, errors.NewValidationError("order must have at least one line", errors.ValidationDetail{
			Field:   "detalles",
			Message: "detalles must not be empty",
		})
	}

	totals := &Totals{Subtotals: make([]float64, len(lines))}
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, errors.NewValidationError("invalid line quantity", errors.ValidationDetail{
				Field:   fmt.Sprintf("detalles[%d].cantidad", i),
				Message: "cantidad must be a positive integer",
			})
		}
		if line.UnitPrice < 0 {
			return nil, errors.NewValidationError("invalid line price", errors.ValidationDetail{
				Field:   fmt.Sprintf("detalles[%d].precio_unitario", i),
				Message: "precio_unitario must be non-negative",
			})
		}

		subtotal := Round2(float64(line.Quantity) * line.UnitPrice)
		totals.Subtotals[i] = subtotal
		totals.NetTotal += subtotal
	}

	totals.NetTotal = Round2(totals.NetTotal)
	totals.TaxAmount = Round2(totals.NetTotal * taxRate)
	totals.GrossTotal = Round2(totals.NetTotal + totals.TaxAmount)

	return totals, nil
}

// Round2 rounds a money amount to cents, half away from zero.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
