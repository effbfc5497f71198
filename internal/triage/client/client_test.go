package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "sekrit")
}

func writeEnvelope(w http.ResponseWriter, code int, data interface{}, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":    errMsg == "",
		"data":  data,
		"error": errMsg,
	})
}

func TestList(t *testing.T) {
	placed := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "sekrit", r.Header.Get("X-Admin-Key"))
		writeEnvelope(w, http.StatusOK, []domain.Order{
			{ID: "ord-1", Status: domain.StatusPlaced, Total: 480, CreatedAt: placed, UpdatedAt: placed},
		}, "")
	})

	orders, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-1", orders[0].ID)
	assert.True(t, orders[0].CreatedAt.Equal(placed))
}

func TestUpdateStatus(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/ord-1/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CONFIRMED", body["status"])

		writeEnvelope(w, http.StatusOK, domain.Order{ID: "ord-1", Status: domain.StatusConfirmed}, "")
	})

	o, err := c.UpdateStatus(context.Background(), "ord-1", domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, o.Status)
}

func TestNotFoundMapsToDomainError(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil, "order not found")
	})

	_, err := c.UpdateStatus(context.Background(), "missing", domain.StatusConfirmed)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBadRequestMapsToValidation(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, nil, "status: SHIPPED")
	})

	_, err := c.UpdateStatus(context.Background(), "ord-1", domain.OrderStatus("SHIPPED"))
	assert.True(t, domain.IsValidation(err))
}

func TestServerErrorSurfaces(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, nil, "server error")
	})

	_, err := c.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}
