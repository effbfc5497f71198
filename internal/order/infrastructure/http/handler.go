package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gharkakhana/cloud-kitchen/internal/order/application"
	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
	"github.com/gharkakhana/cloud-kitchen/internal/validation"
	"github.com/gharkakhana/cloud-kitchen/pkg/idempotency"
)

type Handler struct {
	log      *slog.Logger
	service  *application.Service
	idem     *idempotency.Store
	adminKey string
	tracer   trace.Tracer
}

// NewHandler wires the order endpoints. idem may be nil, in which case
// Idempotency-Key headers are not deduped.
func NewHandler(log *slog.Logger, service *application.Service, idem *idempotency.Store, adminKey string) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		idem:     idem,
		adminKey: adminKey,
		tracer:   otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", h.createOrder)
	r.Group(func(r chi.Router) {
		r.Use(h.adminOnly)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/status", h.updateStatus)
	})
	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	if key := r.Header.Get("Idempotency-Key"); key != "" && h.idem != nil {
		seen, err := h.idem.Seen(ctx, h.idem.Key("orders", key))
		if err != nil {
			h.log.Error("idempotency check failed", "err", err)
		} else if seen {
			respondErr(w, http.StatusConflict, "duplicate request")
			return
		}
	}

	var req validation.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid body")
		return
	}

	o, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	orders, err := h.service.List(ctx)
	if err != nil {
		h.fail(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	var req validation.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid body")
		return
	}

	o, err := h.service.UpdateStatus(ctx, chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.fail(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

// adminOnly gates the triage endpoints behind the shared admin key,
// accepted either as ?key= or the X-Admin-Key header.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			key = r.Header.Get("X-Admin-Key")
		}
		if h.adminKey == "" || key != h.adminKey {
			respondErr(w, http.StatusUnauthorized, "invalid admin key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		respondErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondErr(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("request failed", "err", err)
		respondErr(w, http.StatusInternalServerError, "server error")
	}
}
