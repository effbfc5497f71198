package validation

// ItemRequest is a single order line as submitted by the order page.
type ItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"qty" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// CreateOrderRequest is the payload for POST /api/orders. Total is
// optional; when the client sends one it must match the item sum, but the
// stored total is always derived server-side.
type CreateOrderRequest struct {
	Name    string        `json:"name" validate:"required"`
	Phone   string        `json:"phone" validate:"required"`
	Address string        `json:"address" validate:"required"`
	Items   []ItemRequest `json:"items" validate:"required,min=1,dive"`
	Total   float64       `json:"total,omitempty"`
	Payment string        `json:"payment,omitempty"`
	Notes   string        `json:"notes,omitempty"`
}

// UpdateStatusRequest is the payload for POST /api/orders/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
