package triage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

// StatusUpdater is the write side of the order store: an unconditional
// status write, approved beforehand by this controller.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, error)
}

// IllegalTransitionError reports a move the state machine forbids. It is
// raised before any store call is made.
type IllegalTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// Result describes the outcome of a transition attempt. Reverted is set
// when an optimistic update had to be rolled back.
type Result struct {
	Success  bool
	Reverted domain.OrderStatus
}

// Controller drives order status changes: validate against the state
// machine, confirm with the operator, apply optimistically, persist,
// reconcile on failure.
type Controller struct {
	log     *slog.Logger
	session *Session
	store   StatusUpdater
	confirm Confirmer
	notify  Notifier
	now     func() time.Time
}

type ControllerOption func(*Controller)

func WithConfirmer(c Confirmer) ControllerOption {
	return func(ctl *Controller) { ctl.confirm = c }
}

func WithControllerNotifier(n Notifier) ControllerOption {
	return func(ctl *Controller) { ctl.notify = n }
}

func WithControllerClock(now func() time.Time) ControllerOption {
	return func(ctl *Controller) { ctl.now = now }
}

func NewController(log *slog.Logger, session *Session, store StatusUpdater, opts ...ControllerOption) *Controller {
	ctl := &Controller{
		log:     log,
		session: session,
		store:   store,
		confirm: AutoConfirmer{},
		notify:  LogNotifier{Log: log},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Transition moves order id to next. Illegal or unrecognized targets are
// rejected without touching the store. The in-memory copy is updated
// before the persist resolves; a persist failure reverts it exactly.
func (c *Controller) Transition(ctx context.Context, id string, next domain.OrderStatus) (Result, error) {
	if !next.Valid() {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrUnknownStatus, next)
	}

	current, ok := c.session.get(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if !domain.CanTransition(current.Status, next) {
		return Result{}, &IllegalTransitionError{From: current.Status, To: next}
	}

	approved, err := c.confirm.Confirm(ctx, fmt.Sprintf("Move #%s to %s?", id, next))
	if err != nil {
		return Result{}, fmt.Errorf("confirm transition: %w", err)
	}
	if !approved {
		return Result{}, nil
	}

	prev, prevUpdated, ok := c.session.applyStatus(id, next, c.now().UTC())
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	if _, err := c.store.UpdateStatus(ctx, id, next); err != nil {
		c.session.revertStatus(id, prev, prevUpdated)
		c.notify.Notify("Failed to update status", "error")
		c.log.Error("status persist failed, reverted", "order_id", id, "from", prev, "to", next, "err", err)
		return Result{Reverted: prev}, fmt.Errorf("persist status: %w", err)
	}

	c.notify.Notify(fmt.Sprintf("Order #%s → %s", id, next), "success")
	return Result{Success: true}, nil
}
