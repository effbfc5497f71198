package triage

import (
	"context"
	"log/slog"
)

// Renderer receives the filtered/searched/sorted view whenever it
// changes. The real dashboard draws it; tests record it.
type Renderer interface {
	Render(view []ScoredOrder)
}

// NopRenderer discards views.
type NopRenderer struct{}

func (NopRenderer) Render([]ScoredOrder) {}

// Notifier surfaces user-facing messages (the toast of the web UI).
// Kind is one of "info", "success", "error".
type Notifier interface {
	Notify(msg, kind string)
}

// LogNotifier routes notifications to the structured log.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(msg, kind string) {
	if kind == "error" {
		n.Log.Error(msg)
		return
	}
	n.Log.Info(msg, "kind", kind)
}

// Confirmer asks the operator before a status transition proceeds.
// Every transition is confirmed, deliberate friction against misclicks
// on live orders.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AutoConfirmer approves everything; the default for headless use.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(context.Context, string) (bool, error) { return true, nil }
