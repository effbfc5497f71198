package domain

import "time"

// OrderPlaced is published when a new order is persisted.
type OrderPlaced struct {
	OrderID  string      `json:"order_id"`
	Customer string      `json:"customer"`
	Total    float64     `json:"total"`
	Items    []OrderItem `json:"items"`
}

// OrderStatusChanged is published for every successful status transition.
// ChangedAt mirrors the order's updatedAt stamp, the mutation timestamp of record.
type OrderStatusChanged struct {
	OrderID   string      `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ChangedAt time.Time   `json:"changed_at"`
}
