package domain

type OrderLine struct {
	ID        uint
	OrderID   uint
	ProductID int
	Quantity  int
	UnitPrice float64
	Subtotal  float64
	Size      *string
	Color     *string
	Note      *string
}
