package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkakhana/cloud-kitchen/internal/order/application"
	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
	"github.com/gharkakhana/cloud-kitchen/internal/order/infrastructure/jsonfile"
)

const testAdminKey = "sekrit"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	repo, err := jsonfile.NewRepository(log, filepath.Join(t.TempDir(), "orders.json"))
	require.NoError(t, err)
	svc := application.NewService(log, repo)
	h := NewHandler(log, svc, nil, testAdminKey)

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

type testEnvelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func doJSON(t *testing.T, method, url string, body interface{}, adminKey string) (int, testEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if adminKey != "" {
		req.Header.Set("X-Admin-Key", adminKey)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var env testEnvelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}

func placeOrder(t *testing.T, srv *httptest.Server) domain.Order {
	t.Helper()
	code, env := doJSON(t, http.MethodPost, srv.URL+"/orders", map[string]interface{}{
		"name":    "Asha",
		"phone":   "+91 98765 43210",
		"address": "12 MG Road",
		"items": []map[string]interface{}{
			{"id": "dal-tadka", "name": "Dal Tadka", "qty": 2, "price": 160},
		},
	}, "")
	require.Equal(t, http.StatusCreated, code)
	require.True(t, env.OK)

	var o domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &o))
	return o
}

func TestCreateOrder(t *testing.T) {
	srv := newTestServer(t)
	o := placeOrder(t, srv)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, domain.StatusPlaced, o.Status)
	assert.Equal(t, 320.0, o.Total)
	assert.Equal(t, "919876543210", o.Customer.Phone)
}

func TestCreateOrderValidation(t *testing.T) {
	srv := newTestServer(t)

	code, env := doJSON(t, http.MethodPost, srv.URL+"/orders", map[string]interface{}{
		"phone": "9876543210", "address": "12 MG Road",
	}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.OK)
	assert.NotEmpty(t, env.Error)
}

func TestListRequiresAdminKey(t *testing.T) {
	srv := newTestServer(t)
	placeOrder(t, srv)

	code, env := doJSON(t, http.MethodGet, srv.URL+"/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.OK)

	code, env = doJSON(t, http.MethodGet, srv.URL+"/orders", nil, "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = doJSON(t, http.MethodGet, srv.URL+"/orders", nil, testAdminKey)
	require.Equal(t, http.StatusOK, code)

	var orders []domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 1)
}

func TestGetOrder(t *testing.T) {
	srv := newTestServer(t)
	o := placeOrder(t, srv)

	code, env := doJSON(t, http.MethodGet, srv.URL+"/orders/"+o.ID, nil, testAdminKey)
	require.Equal(t, http.StatusOK, code)
	var got domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, o.ID, got.ID)

	code, _ = doJSON(t, http.MethodGet, srv.URL+"/orders/missing", nil, testAdminKey)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateStatus(t *testing.T) {
	srv := newTestServer(t)
	o := placeOrder(t, srv)

	code, env := doJSON(t, http.MethodPost, srv.URL+"/orders/"+o.ID+"/status",
		map[string]string{"status": "CONFIRMED"}, testAdminKey)
	require.Equal(t, http.StatusOK, code)

	var updated domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	code, _ = doJSON(t, http.MethodPost, srv.URL+"/orders/"+o.ID+"/status",
		map[string]string{"status": "SHIPPED"}, testAdminKey)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, http.MethodPost, srv.URL+"/orders/missing/status",
		map[string]string{"status": "CONFIRMED"}, testAdminKey)
	assert.Equal(t, http.StatusNotFound, code)
}
