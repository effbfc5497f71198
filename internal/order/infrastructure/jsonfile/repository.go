// Package jsonfile is the flat-file variant of the order store, for
// deployments without a database. The whole collection lives in one JSON
// array; every mutation rewrites the file atomically (temp + rename).
// There is no transactional outbox in this mode: audit payloads passed in
// are ignored.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	path string

	mu     sync.Mutex
	orders []domain.Order
}

// NewRepository loads the file at path, creating it lazily on first
// write. A malformed file is a configuration error and fails fast.
func NewRepository(log *slog.Logger, path string) (*Repository, error) {
	r := &Repository{log: log, path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read order file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &r.orders); err != nil {
			return nil, fmt.Errorf("parse order file %s: %w", path, err)
		}
	}
	return r, nil
}

func (r *Repository) Create(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.ID == o.ID {
			return domain.Invalid("id", "duplicate order id")
		}
	}
	r.orders = append(r.orders, o)
	return r.flush()
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Order, len(r.orders))
	copy(out, r.orders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus, updatedAt time.Time, eventType string, payload []byte, traceparent string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID != id {
			continue
		}
		r.orders[i].Status = next
		r.orders[i].UpdatedAt = updatedAt
		if err := r.flush(); err != nil {
			return domain.Order{}, err
		}
		return r.orders[i], nil
	}
	return domain.Order{}, domain.ErrNotFound
}

// flush rewrites the backing file. Callers hold r.mu.
func (r *Repository) flush() error {
	data, err := json.MarshalIndent(r.orders, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".orders-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
