// Package client is the HTTP order-store client used by the admin
// dashboard. It speaks the kitchen-service API envelope and maps its
// error responses onto the domain error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

type Client struct {
	http     *http.Client
	baseURL  string
	adminKey string
}

func New(baseURL, adminKey string) *Client {
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		adminKey: adminKey,
	}
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// List fetches the full order list, newest-first.
func (c *Client) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus persists a status change the controller has approved.
func (c *Client) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, error) {
	body := map[string]string{"status": string(next)}
	var o domain.Order
	path := fmt.Sprintf("/api/orders/%s/status", url.PathEscape(id))
	if err := c.do(ctx, http.MethodPost, path, body, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", c.adminKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	if !env.OK {
		switch res.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, env.Error)
		case http.StatusBadRequest:
			return domain.Invalid("request", env.Error)
		default:
			return fmt.Errorf("%s %s: HTTP %d: %s", method, path, res.StatusCode, env.Error)
		}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode data: %w", method, path, err)
		}
	}
	return nil
}
