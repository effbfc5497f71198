package application

import (
	"context"
	"time"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

// OrderRepository is the durable order store. Implementations persist the
// mutation and, where they can (a transactional backend), the audit event
// atomically with it. List returns orders newest-first by creation time.
//
// UpdateStatus is an unconditional write: the transition table is enforced
// by the triage controller, not the store.
type OrderRepository interface {
	Create(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus, updatedAt time.Time, eventType string, payload []byte, traceparent string) (domain.Order, error)
}
