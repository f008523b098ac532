// Package resolver wraps candidate probing with a per-axis generation
// counter so that only the most recently submitted selection can publish a
// result. Completions from superseded generations are dropped silently,
// whatever order they finish in ("last-submitted-wins").
package resolver

import (
	"context"
	"log/slog"
	"sync"

	"champ-model-viewer/internal/probe"
)

// Status is the lifecycle state of one axis resolution.
type Status int

const (
	// StatusNone means no resolution is needed for the current selection.
	StatusNone Status = iota
	StatusPending
	StatusResolved
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusExhausted:
		return "exhausted"
	default:
		return "none"
	}
}

// Result is the visible state of one axis. Resolved and exhausted are
// terminal for their generation.
type Result struct {
	Generation uint64
	Status     Status
	URL        string
}

// Override returns the resolved URL, or ("", false) when the axis resolved
// to "no override".
func (r Result) Override() (string, bool) {
	if r.Status == StatusResolved {
		return r.URL, true
	}
	return "", false
}

// Axis resolves candidate lists for one variant axis. Each Submit
// supersedes the previous one: the old resolution is cancelled and its
// completion, if it still arrives, cannot write state.
type Axis struct {
	name     string
	checker  probe.Checker
	logger   *slog.Logger
	onUpdate func(Result) // invoked for live transitions only; may be nil

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current Result
}

// NewAxis creates an axis state machine. onUpdate (optional) fires after
// each live state change, never for stale completions.
func NewAxis(name string, ch probe.Checker, logger *slog.Logger, onUpdate func(Result)) *Axis {
	return &Axis{name: name, checker: ch, logger: logger, onUpdate: onUpdate}
}

// Submit starts resolving the candidate list under a fresh generation.
// An empty list is immediate exhaustion, without networking. Returns the
// new generation.
func (a *Axis) Submit(urls []string) uint64 {
	a.mu.Lock()
	gen := a.next()

	if len(urls) == 0 {
		a.current = Result{Generation: gen, Status: StatusExhausted}
		cur := a.current
		a.mu.Unlock()
		a.notify(cur)
		return gen
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.current = Result{Generation: gen, Status: StatusPending}
	cur := a.current
	a.mu.Unlock()
	a.notify(cur)

	go func() {
		defer cancel()
		res := probe.Resolve(ctx, a.checker, urls)
		a.complete(gen, res)
	}()
	return gen
}

// Clear short-circuits the axis to "no resolution needed" — no networking,
// prior in-flight work superseded.
func (a *Axis) Clear() {
	a.mu.Lock()
	gen := a.next()
	a.current = Result{Generation: gen, Status: StatusNone}
	cur := a.current
	a.mu.Unlock()
	a.notify(cur)
}

// Current returns the axis's visible state.
func (a *Axis) Current() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// next bumps the generation and cancels the superseded resolution.
// Caller holds a.mu.
func (a *Axis) next() uint64 {
	a.gen++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	return a.gen
}

func (a *Axis) complete(gen uint64, res probe.Result) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		if a.logger != nil {
			a.logger.Debug("stale resolution dropped", "axis", a.name, "generation", gen)
		}
		return
	}
	if res.Found {
		a.current = Result{Generation: gen, Status: StatusResolved, URL: res.URL}
	} else {
		a.current = Result{Generation: gen, Status: StatusExhausted}
	}
	cur := a.current
	a.mu.Unlock()

	if a.logger != nil {
		a.logger.Debug("axis settled", "axis", a.name, "status", cur.Status.String(), "url", cur.URL)
	}
	a.notify(cur)
}

func (a *Axis) notify(r Result) {
	if a.onUpdate != nil {
		a.onUpdate(r)
	}
}
