package triage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval matches the dashboard's auto-refresh cadence.
const DefaultPollInterval = 15 * time.Second

// Poller periodically invokes a refresh while toggled on. Start and Stop
// are idempotent. Ticks never overlap: a tick that fires while the
// previous refresh is still in flight is dropped, and since every
// refresh replaces the snapshot wholesale, the last completion wins.
type Poller struct {
	log      *slog.Logger
	interval time.Duration
	refresh  func(ctx context.Context) error
	onToggle func(on bool)

	mu       sync.Mutex
	cancel   context.CancelFunc
	inFlight atomic.Bool
}

type PollerOption func(*Poller)

// WithToggleIndicator registers the visible on/off indicator hook.
func WithToggleIndicator(fn func(on bool)) PollerOption {
	return func(p *Poller) { p.onToggle = fn }
}

func NewPoller(log *slog.Logger, interval time.Duration, refresh func(ctx context.Context) error, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{
		log:      log,
		interval: interval,
		refresh:  refresh,
		onToggle: func(bool) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling; a second Start while running is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.onToggle(true)
	go p.loop(ctx)
}

// Stop halts polling; in-flight refreshes are not aborted, their
// completions are simply applied on arrival.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	p.onToggle(false)
}

func (p *Poller) Toggle(ctx context.Context) {
	if p.IsRunning() {
		p.Stop()
		return
	}
	p.Start(ctx)
}

func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) loop(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !p.inFlight.CompareAndSwap(false, true) {
				p.log.Debug("poll tick skipped, refresh in flight")
				continue
			}
			go func() {
				defer p.inFlight.Store(false)
				if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
					p.log.Error("poll refresh failed", "err", err)
				}
			}()
		}
	}
}
