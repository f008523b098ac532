// Package probe performs lightweight existence checks against candidate
// asset URLs. A check that fails for any reason — missing asset, bad
// status, transport error — is an ordinary miss, not an error: asset
// availability is speculative and misses are how the fallback chain
// advances.
package probe

import (
	"context"
	"io"
	"log/slog"
	"net/http"
)

// Checker reports whether a candidate URL exists.
type Checker interface {
	Exists(ctx context.Context, url string) bool
}

// HTTPChecker probes with HEAD requests. Any 2xx status counts as found.
type HTTPChecker struct {
	Client *http.Client // nil means http.DefaultClient
	Logger *slog.Logger // may be nil
}

func (c *HTTPChecker) Exists(ctx context.Context, url string) bool {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		if c.Logger != nil && ctx.Err() == nil {
			c.Logger.Debug("probe transport failure", "url", url, "error", err)
		}
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Result is the outcome of walking one candidate list.
type Result struct {
	URL   string
	Found bool
}

// Resolve checks candidates strictly in order and stops at the first hit.
// Cancellation is honored between checks: once ctx is done no further
// checks are issued and the result reports not-found. An empty list is
// immediate exhaustion.
func Resolve(ctx context.Context, ch Checker, urls []string) Result {
	for _, u := range urls {
		if ctx.Err() != nil {
			return Result{}
		}
		if ch.Exists(ctx, u) {
			return Result{URL: u, Found: true}
		}
	}
	return Result{}
}
