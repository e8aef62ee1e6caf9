package dto

// PlaceOrderRequest mirrors the wire contract shared by the admin console
// and the public storefront: Spanish field names, English domain values
// internally.
type PlaceOrderRequest struct {
	ClientID     int              `json:"cliente_id"`
	DeliveryDate *string          `json:"fecha_entrega,omitempty"`
	Priority     string           `json:"prioridad"`
	CreatedBy    *string          `json:"creado_por,omitempty"`
	Lines        []OrderLineEntry `json:"detalles"`
}

type OrderLineEntry struct {
	ProductID int     `json:"producto_id"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
	Size      *string `json:"talla,omitempty"`
	Color     *string `json:"color,omitempty"`
	Note      *string `json:"nota,omitempty"`
}

const (
	PriorityLow    = "BAJA"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "ALTA"
	PriorityUrgent = "URGENTE"
)

type PlaceOrderResponse struct {
	Success bool     `json:"success"`
	Data    OrderDTO `json:"data"`
}

type CheckoutResponse struct {
	Success   bool   `json:"success"`
	ChargeRef string `json:"ordenId"`
	OrderID   uint   `json:"pedidoId"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
