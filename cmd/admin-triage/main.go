package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gharkakhana/cloud-kitchen/internal/order/domain"
	"github.com/gharkakhana/cloud-kitchen/internal/triage"
	"github.com/gharkakhana/cloud-kitchen/internal/triage/client"
	"github.com/gharkakhana/cloud-kitchen/pkg/logging"
	"github.com/gharkakhana/cloud-kitchen/pkg/shutdown"
)

// Terminal rendition of the admin dashboard: same triage session, same
// transition rules, plain text instead of DOM.

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	apiURL := env("API_URL", "http://localhost:8080")
	adminKey := env("ADMIN_KEY", "")
	redisAddr := env("REDIS_ADDR", "")
	interval := triage.DefaultPollInterval
	if v := env("POLL_INTERVAL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Error("bad POLL_INTERVAL", "value", v, "err", err)
			os.Exit(1)
		}
		interval = d
	}
	if adminKey == "" {
		log.Error("ADMIN_KEY is required")
		os.Exit(1)
	}

	store := client.New(apiURL, adminKey)
	out := &syncWriter{w: os.Stdout}
	stdin := bufio.NewReader(os.Stdin)

	opts := []triage.SessionOption{
		triage.WithRenderer(&termRenderer{out: out}),
		triage.WithNotifier(&termNotifier{out: out}),
	}
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()
		opts = append(opts, triage.WithPrefs(triage.NewRedisPrefs(rdb)))
	}

	session := triage.NewSession(log, store, adminKey, opts...)
	session.LoadPrefs(ctx)

	controller := triage.NewController(log, session, store,
		triage.WithConfirmer(&termConfirmer{in: stdin, out: out}),
		triage.WithControllerNotifier(&termNotifier{out: out}),
	)

	poller := triage.NewPoller(log, interval, session.Refresh,
		triage.WithToggleIndicator(func(on bool) {
			state := "OFF"
			if on {
				state = "ON"
			}
			fmt.Fprintf(out, "auto-refresh: %s\n", state)
		}),
	)
	defer poller.Stop()

	if err := session.Refresh(ctx); err != nil {
		log.Error("initial refresh failed", "err", err)
	}

	fmt.Fprintln(out, `commands: refresh | view | filter <STATUS|ALL> | search <text> | sort <priority|newest|oldest|value> | move <id> <STATUS> | poll | quit`)

	for {
		fmt.Fprint(out, "> ")
		line, err := stdin.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "refresh":
			if err := session.Refresh(ctx); err != nil {
				fmt.Fprintf(out, "refresh failed: %v\n", err)
			}
		case "view":
			session.Render(true)
		case "filter":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: filter <STATUS|ALL>")
				continue
			}
			if err := session.SetFilter(ctx, fields[1]); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
		case "search":
			session.SetSearch(strings.Join(fields[1:], " "))
		case "sort":
			if len(fields) != 2 {
				fmt.Fprintln(out, "usage: sort <priority|newest|oldest|value>")
				continue
			}
			mode, err := triage.ParseSortMode(fields[1])
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			_ = session.SetSort(mode)
		case "move":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: move <id> <STATUS>")
				continue
			}
			next := domain.OrderStatus(strings.ToUpper(fields[2]))
			if _, err := controller.Transition(ctx, fields[1], next); err != nil {
				fmt.Fprintf(out, "%v\n", err)
			}
		case "poll":
			poller.Toggle(ctx)
		case "quit", "exit":
			return
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
}

// syncWriter serializes poller-driven renders with prompt output.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type termRenderer struct {
	out io.Writer
}

func (r *termRenderer) Render(view []triage.ScoredOrder) {
	var b strings.Builder
	if len(view) == 0 {
		b.WriteString("no orders found\n")
		fmt.Fprint(r.out, b.String())
		return
	}
	fmt.Fprintf(&b, "%-10s %-11s %6s %9s  %-20s %s\n", "ID", "STATUS", "SCORE", "TOTAL", "CUSTOMER", "WHY")
	for _, o := range view {
		fmt.Fprintf(&b, "%-10s %-11s %6.2f %9.2f  %-20s %s\n",
			shorten(o.ID), o.Status, o.Score, o.Total, shorten(o.Customer.Name), o.Breakdown)
	}
	fmt.Fprint(r.out, b.String())
}

func shorten(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

type termNotifier struct {
	out io.Writer
}

func (n *termNotifier) Notify(msg, kind string) {
	fmt.Fprintf(n.out, "[%s] %s\n", kind, msg)
}

type termConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c *termConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
