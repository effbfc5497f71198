package domain

import (
	"strings"
	"time"
)

type OrderStatus string

// Status vocabulary is a cross-component contract; spellings are exact.
const (
	StatusPlaced     OrderStatus = "PLACED"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusDispatched OrderStatus = "DISPATCHED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Statuses lists every recognized status in lifecycle order.
var Statuses = []OrderStatus{
	StatusPlaced,
	StatusConfirmed,
	StatusDispatched,
	StatusDelivered,
	StatusCancelled,
}

// transitions is the legal status state machine. DELIVERED and CANCELLED
// are terminal; CANCELLED is reachable only before dispatch.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// AllowedNext returns the statuses s may legally transition to.
func AllowedNext(s OrderStatus) []OrderStatus {
	return transitions[s]
}

// CanTransition reports whether from -> to is a legal transition.
func CanTransition(from, to OrderStatus) bool {
	for _, n := range transitions[from] {
		if n == to {
			return true
		}
	}
	return false
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"qty"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID        string      `json:"id"`
	Customer  Customer    `json:"customer"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	Payment   string      `json:"payment,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewOrder builds a PLACED order. The total is derived from the items once,
// here, and stored; it is never recomputed after placement.
func NewOrder(id string, c Customer, items []OrderItem, payment, notes string) Order {
	c.Phone = SanitizePhone(c.Phone)
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.Price
	}
	now := time.Now().UTC()
	return Order{
		ID:        id,
		Customer:  c,
		Items:     items,
		Total:     total,
		Status:    StatusPlaced,
		Payment:   payment,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SanitizePhone strips everything but digits and keeps the last 12,
// which allows a country code ahead of a 10-digit number.
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 12 {
		digits = digits[len(digits)-12:]
	}
	return digits
}
