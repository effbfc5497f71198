package triage

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
)

// FilterAll shows every status.
const FilterAll = "ALL"

type SortMode string

const (
	SortPriority SortMode = "priority" // the "AI" sort of the web UI
	SortNewest   SortMode = "newest"
	SortOldest   SortMode = "oldest"
	SortValue    SortMode = "value"
)

func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriority, SortNewest, SortOldest, SortValue:
		return SortMode(strings.ToLower(strings.TrimSpace(s))), nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// ScoredOrder is an order plus its transient priority annotation. The
// annotation is derived on every refresh and never persisted.
type ScoredOrder struct {
	domain.Order
	Score     float64
	Breakdown Breakdown
}

// OrderLister is the read side of the order store as the triage engine
// sees it.
type OrderLister interface {
	List(ctx context.Context) ([]domain.Order, error)
}

// Session owns the in-memory working set for one admin dashboard
// instance. All view state (filter, search, sort) lives here, never in
// globals, so several dashboards can coexist in one process.
type Session struct {
	log      *slog.Logger
	store    OrderLister
	cfg      ScoreConfig
	adminKey string
	prefs    PrefStore
	renderer Renderer
	notify   Notifier
	now      func() time.Time

	mu       sync.Mutex
	orders   []ScoredOrder
	filter   string
	search   string
	sortMode SortMode
	lastHash string
}

type SessionOption func(*Session)

func WithScoreConfig(cfg ScoreConfig) SessionOption {
	return func(s *Session) { s.cfg = cfg }
}

func WithPrefs(p PrefStore) SessionOption {
	return func(s *Session) { s.prefs = p }
}

func WithRenderer(r Renderer) SessionOption {
	return func(s *Session) { s.renderer = r }
}

func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notify = n }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func NewSession(log *slog.Logger, store OrderLister, adminKey string, opts ...SessionOption) *Session {
	s := &Session{
		log:      log,
		store:    store,
		cfg:      DefaultScoreConfig(),
		adminKey: adminKey,
		prefs:    NewMemoryPrefs(),
		renderer: NopRenderer{},
		notify:   LogNotifier{Log: log},
		now:      time.Now,
		filter:   FilterAll,
		sortMode: SortPriority,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPrefs restores the persisted status filter for this admin key.
// A pref-store failure is not fatal; the default filter stands.
func (s *Session) LoadPrefs(ctx context.Context) {
	saved, err := s.prefs.LoadFilter(ctx, s.adminKey)
	if err != nil {
		s.log.Warn("load filter pref failed", "err", err)
		return
	}
	if saved == "" {
		return
	}
	if saved != FilterAll && !domain.OrderStatus(saved).Valid() {
		return
	}
	s.mu.Lock()
	s.filter = saved
	s.mu.Unlock()
}

// Refresh fetches the full order list, re-annotates it, and atomically
// replaces the snapshot. On fetch failure the previous snapshot is left
// in place and the error is surfaced.
func (s *Session) Refresh(ctx context.Context) error {
	orders, err := s.store.List(ctx)
	if err != nil {
		s.notify.Notify("Failed to fetch orders", "error")
		return fmt.Errorf("refresh orders: %w", err)
	}

	now := s.now()
	scored := make([]ScoredOrder, 0, len(orders))
	for _, o := range orders {
		score, bd := s.cfg.Score(o, now)
		scored = append(scored, ScoredOrder{Order: o, Score: score, Breakdown: bd})
	}

	s.mu.Lock()
	s.orders = scored
	view, hash, skip := s.prepareRenderLocked(true)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
	return nil
}

// SetFilter narrows the view to one status (or ALL) and persists the
// choice for the next session.
func (s *Session) SetFilter(ctx context.Context, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != FilterAll && !domain.OrderStatus(status).Valid() {
		return fmt.Errorf("%w: %s", domain.ErrUnknownStatus, status)
	}
	if err := s.prefs.SaveFilter(ctx, s.adminKey, status); err != nil {
		s.log.Warn("save filter pref failed", "err", err)
	}

	s.mu.Lock()
	s.filter = status
	view, hash, skip := s.prepareRenderLocked(true)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
	return nil
}

// SetSearch applies a case-insensitive substring match across order id,
// customer fields, and item names. Debouncing belongs at the input
// boundary, not here.
func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	s.search = strings.ToLower(strings.TrimSpace(text))
	view, hash, skip := s.prepareRenderLocked(true)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
}

func (s *Session) SetSort(mode SortMode) error {
	switch mode {
	case SortPriority, SortNewest, SortOldest, SortValue:
	default:
		return fmt.Errorf("unknown sort mode %q", mode)
	}

	s.mu.Lock()
	s.sortMode = mode
	view, hash, skip := s.prepareRenderLocked(true)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
	return nil
}

// View returns the pipeline output: filter, then search, then sort.
func (s *Session) View() []ScoredOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) Sort() SortMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortMode
}

// RenderHash is the content hash of the last rendered state.
func (s *Session) RenderHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHash
}

// Render re-runs the pipeline; unless forced it is skipped when nothing
// observable changed since the last pass.
func (s *Session) Render(force bool) {
	s.mu.Lock()
	view, hash, skip := s.prepareRenderLocked(force)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
}

// get returns the snapshot entry for id.
func (s *Session) get(id string) (ScoredOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return ScoredOrder{}, false
}

// applyStatus is the optimistic half of a transition: it mutates the
// working copy, restamps updatedAt, rescores, and forces a render. The
// returned values are the exact rollback point.
func (s *Session) applyStatus(id string, next domain.OrderStatus, stamp time.Time) (prev domain.OrderStatus, prevUpdated time.Time, ok bool) {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		prev = s.orders[i].Status
		prevUpdated = s.orders[i].UpdatedAt
		s.orders[i].Status = next
		s.orders[i].UpdatedAt = stamp
		ok = true
		break
	}
	if !ok {
		s.mu.Unlock()
		return prev, prevUpdated, false
	}
	s.rescoreLocked()
	view, hash, skip := s.prepareRenderLocked(true)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
	return prev, prevUpdated, true
}

// revertStatus restores the exact pre-transition state after a failed
// persist.
func (s *Session) revertStatus(id string, prev domain.OrderStatus, prevUpdated time.Time) {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		s.orders[i].Status = prev
		s.orders[i].UpdatedAt = prevUpdated
		break
	}
	s.rescoreLocked()
	view, hash, skip := s.prepareRenderLocked(true)
	s.mu.Unlock()

	s.finishRender(view, hash, skip)
}

func (s *Session) rescoreLocked() {
	now := s.now()
	for i := range s.orders {
		score, bd := s.cfg.Score(s.orders[i].Order, now)
		s.orders[i].Score = score
		s.orders[i].Breakdown = bd
	}
}

// prepareRenderLocked computes the view and its content hash and decides
// whether the render pass can be skipped. Callers hold s.mu; the actual
// renderer call happens outside the lock via finishRender.
func (s *Session) prepareRenderLocked(force bool) (view []ScoredOrder, hash string, skip bool) {
	hash = s.hashLocked()
	if !force && hash == s.lastHash {
		return nil, hash, true
	}
	s.lastHash = hash
	return s.viewLocked(), hash, false
}

func (s *Session) finishRender(view []ScoredOrder, _ string, skip bool) {
	if skip {
		return
	}
	s.renderer.Render(view)
}

// hashLocked covers everything the rendered output depends on: admin
// key, each order's identity/mutation state/score, and the current
// filter, search, and sort.
func (s *Session) hashLocked() string {
	h := fnv.New64a()
	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}
	write(s.adminKey)
	for _, o := range s.orders {
		write(o.ID, o.UpdatedAt.UTC().Format(time.RFC3339Nano), string(o.Status),
			strconv.FormatFloat(o.Score, 'f', -1, 64))
	}
	write(s.filter, s.search, string(s.sortMode))
	return strconv.FormatUint(h.Sum64(), 16)
}

func (s *Session) viewLocked() []ScoredOrder {
	filtered := make([]ScoredOrder, 0, len(s.orders))
	for _, o := range s.orders {
		if s.filter != FilterAll && string(o.Status) != s.filter {
			continue
		}
		if s.search != "" && !matches(o, s.search) {
			continue
		}
		filtered = append(filtered, o)
	}

	// stable: ties keep the filtered/searched order
	switch s.sortMode {
	case SortNewest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		})
	case SortValue:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Total > filtered[j].Total
		})
	default: // SortPriority
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Score > filtered[j].Score
		})
	}
	return filtered
}

func matches(o ScoredOrder, needle string) bool {
	hay := []string{o.ID, o.Customer.Name, o.Customer.Phone, o.Customer.Address}
	for _, it := range o.Items {
		hay = append(hay, it.Name)
	}
	for _, f := range hay {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
