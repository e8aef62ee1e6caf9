package dto

import "time"

type OrderDTO struct {
	ID           uint      `json:"id"`
	ClientID     int       `json:"cliente_id"`
	Status       string    `json:"estado"`
	Priority     string    `json:"prioridad"`
	DeliveryDate *string   `json:"fecha_entrega,omitempty"`
	NetTotal     float64   `json:"total_neto"`
	TaxAmount    float64   `json:"impuesto"`
	GrossTotal   float64   `json:"total_bruto"`
	CreatedBy    *string   `json:"creado_por,omitempty"`
	CreatedAt    time.Time `json:"creado_en"`
	UpdatedAt    time.Time `json:"actualizado_en"`
}

type OrderLineDTO struct {
	ID        uint    `json:"id"`
	ProductID int     `json:"producto_id"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
	Subtotal  float64 `json:"subtotal"`
	Size      *string `json:"talla,omitempty"`
	Color     *string `json:"color,omitempty"`
	Note      *string `json:"nota,omitempty"`
}

type ClientDTO struct {
	ID      int     `json:"id"`
	Name    string  `json:"nombre"`
	Email   string  `json:"email"`
	Phone   *string `json:"telefono,omitempty"`
	Address *string `json:"direccion,omitempty"`
}

type OrderDetailResponse struct {
	Success bool           `json:"success"`
	Data    OrderDetailDTO `json:"data"`
}

type OrderDetailDTO struct {
	OrderDTO
	Lines  []OrderLineDTO `json:"detalles"`
	Client *ClientDTO     `json:"cliente,omitempty"`
}

type OrderListResponse struct {
	Success bool       `json:"success"`
	Data    []OrderDTO `json:"data"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
}
