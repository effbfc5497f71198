package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// PrefStore persists dashboard preferences across sessions, keyed by
// admin key. The web original used localStorage for this.
type PrefStore interface {
	LoadFilter(ctx context.Context, adminKey string) (string, error)
	SaveFilter(ctx context.Context, adminKey, status string) error
}

// RedisPrefs stores preferences in redis.
type RedisPrefs struct {
	rdb *redis.Client
}

func NewRedisPrefs(rdb *redis.Client) *RedisPrefs {
	return &RedisPrefs{rdb: rdb}
}

func prefKey(adminKey string) string {
	return fmt.Sprintf("admin:prefs:filter:%s", adminKey)
}

func (p *RedisPrefs) LoadFilter(ctx context.Context, adminKey string) (string, error) {
	v, err := p.rdb.Get(ctx, prefKey(adminKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (p *RedisPrefs) SaveFilter(ctx context.Context, adminKey, status string) error {
	return p.rdb.Set(ctx, prefKey(adminKey), status, 0).Err()
}

// MemoryPrefs is the fallback when no redis is configured; preferences
// last as long as the process.
type MemoryPrefs struct {
	mu      sync.Mutex
	filters map[string]string
}

func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{filters: map[string]string{}}
}

func (p *MemoryPrefs) LoadFilter(_ context.Context, adminKey string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters[adminKey], nil
}

func (p *MemoryPrefs) SaveFilter(_ context.Context, adminKey, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters[adminKey] = status
	return nil
}
