// Package imageload walks an ordered candidate list for 2D art (splash and
// loading images), bounding each attempt with a fixed timeout and advancing
// on error or expiry. The caller is notified exactly once per candidate
// list, even when every candidate fails, so any "loading" UI state is
// always dismissed.
package imageload

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"champ-model-viewer/internal/candidates"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"
)

// DefaultTimeout bounds the wait on a single candidate.
const DefaultTimeout = 4 * time.Second

// Fetcher loads and decodes one image URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// HTTPFetcher fetches over HTTP and decodes via the registered image
// formats (jpeg, png, webp, tga).
type HTTPFetcher struct {
	Client *http.Client // nil means http.DefaultClient
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imageload: request %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imageload: fetch %s: %w", url, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("imageload: fetch %s: status %d", url, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("imageload: decode %s: %w", url, err)
	}
	return img, nil
}

// Result reports the chain's outcome. Exhausted is set when every
// candidate failed or timed out.
type Result struct {
	URL       string
	Image     image.Image
	Exhausted bool
}

// Loader runs the fallback chain. Loading the same list again (by value)
// is a no-op; a different list resets to the first candidate and re-arms
// the one-shot completion callback.
type Loader struct {
	fetch   Fetcher
	timeout time.Duration
	onDone  func(Result)

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	loaded  bool
	listKey string
	index   int
	done    bool
	result  Result
}

// New creates a loader. onDone fires exactly once per candidate list.
func New(f Fetcher, timeout time.Duration, onDone func(Result)) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{fetch: f, timeout: timeout, onDone: onDone}
}

// Load starts (or restarts) the chain for the given candidates. The list
// is deduplicated by value so the chain cannot stall re-trying an
// unchanged URL.
func (l *Loader) Load(urls []string) {
	urls = candidates.Dedup(append([]string(nil), urls...))
	key := strings.Join(urls, "\n")

	l.mu.Lock()
	// The zero-value key is a valid list (no candidates), so a separate
	// flag marks whether anything has been loaded yet.
	if l.loaded && key == l.listKey {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.loaded = true
	l.listKey = key
	l.index = 0
	l.done = false
	l.result = Result{}
	l.mu.Unlock()

	go l.run(ctx, gen, urls)
}

// Current reports the candidate index being attempted and whether the
// chain has completed.
func (l *Loader) Current() (index int, done bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index, l.done
}

// Result returns the current list's outcome. done is false while the
// chain is still running or nothing has been loaded; re-loading the same
// list keeps the completed result.
func (l *Loader) Result() (res Result, done bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result, l.done
}

func (l *Loader) run(ctx context.Context, gen uint64, urls []string) {
	for i, u := range urls {
		if ctx.Err() != nil {
			return
		}
		l.setIndex(gen, i)

		attempt, cancel := context.WithTimeout(ctx, l.timeout)
		img, err := l.fetch.Fetch(attempt, u)
		cancel()

		if ctx.Err() != nil {
			return
		}
		if err == nil {
			l.finish(gen, Result{URL: u, Image: img})
			return
		}
		// Error or timeout: advance to the next candidate.
	}
	l.finish(gen, Result{Exhausted: true})
}

func (l *Loader) setIndex(gen uint64, i int) {
	l.mu.Lock()
	if gen == l.gen {
		l.index = i
	}
	l.mu.Unlock()
}

// finish marks the chain done and notifies once. Late events for a
// superseded or already-done chain are no-ops.
func (l *Loader) finish(gen uint64, res Result) {
	l.mu.Lock()
	if gen != l.gen || l.done {
		l.mu.Unlock()
		return
	}
	l.done = true
	l.result = res
	l.mu.Unlock()

	if l.onDone != nil {
		l.onDone(res)
	}
}
