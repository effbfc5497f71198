package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
	"github.com/gharkakhana/cloud-kitchen/internal/validation"
	"github.com/gharkakhana/cloud-kitchen/pkg/tracing"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Service struct {
	log      *slog.Logger
	repo     OrderRepository
	validate *validatorv10.Validate
	newID    func() string
	now      func() time.Time
}

func NewService(log *slog.Logger, repo OrderRepository) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		validate: validation.New(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Create validates the request, derives the total, and persists a PLACED
// order together with its OrderPlaced audit event.
func (s *Service) Create(ctx context.Context, req validation.CreateOrderRequest) (domain.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validatorv10.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Order{}, domain.Invalid(verrs[0].Field(), verrs[0].Tag())
		}
		return domain.Order{}, domain.Invalid("request", err.Error())
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{
			ID:       it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	o := domain.NewOrder(s.newID(), domain.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}, items, req.Payment, req.Notes)

	payload, err := json.Marshal(domain.OrderPlaced{
		OrderID:  o.ID,
		Customer: o.Customer.Name,
		Total:    o.Total,
		Items:    o.Items,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.repo.Create(ctx, o, EventOrderPlaced, payload, tracing.Traceparent(ctx)); err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order placed", "order_id", o.ID, "total", o.Total)
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus writes the status unconditionally once the value itself is
// recognized. Legality of the transition is the caller's concern.
func (s *Service) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, error) {
	if !next.Valid() {
		return domain.Order{}, domain.Invalid("status", string(next))
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	updatedAt := s.now().UTC()
	payload, err := json.Marshal(domain.OrderStatusChanged{
		OrderID:   id,
		From:      current.Status,
		To:        next,
		ChangedAt: updatedAt,
	})
	if err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next, updatedAt, EventOrderStatusChanged, payload, tracing.Traceparent(ctx))
	if err != nil {
		return domain.Order{}, err
	}
	s.log.Info("order status updated", "order_id", id, "from", current.Status, "to", next)
	return updated, nil
}
