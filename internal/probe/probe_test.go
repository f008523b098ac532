package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeChecker records the URLs checked and answers from a fixed set.
type fakeChecker struct {
	mu      sync.Mutex
	exists  map[string]bool
	checked []string
}

func (f *fakeChecker) Exists(ctx context.Context, url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, url)
	return f.exists[url]
}

func TestResolve_StopsAtFirstHit(t *testing.T) {
	ch := &fakeChecker{exists: map[string]bool{"b": true, "c": true}}
	res := Resolve(context.Background(), ch, []string{"a", "b", "c"})
	if !res.Found || res.URL != "b" {
		t.Fatalf("got %+v, want found b", res)
	}
	if len(ch.checked) != 2 {
		t.Fatalf("checked %v, want to stop after b", ch.checked)
	}
}

func TestResolve_Exhaustion(t *testing.T) {
	ch := &fakeChecker{exists: map[string]bool{}}
	res := Resolve(context.Background(), ch, []string{"a", "b"})
	if res.Found {
		t.Fatalf("got %+v, want not found", res)
	}
	if len(ch.checked) != 2 {
		t.Fatalf("checked %v, want all candidates tried", ch.checked)
	}
}

func TestResolve_EmptyListIsImmediateExhaustion(t *testing.T) {
	ch := &fakeChecker{}
	res := Resolve(context.Background(), ch, nil)
	if res.Found || len(ch.checked) != 0 {
		t.Fatalf("empty list must not probe; got %+v after %v", res, ch.checked)
	}
}

func TestResolve_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := &fakeChecker{exists: map[string]bool{"a": true}}
	res := Resolve(ctx, ch, []string{"a"})
	if res.Found || len(ch.checked) != 0 {
		t.Fatalf("cancelled resolve must not probe; got %+v after %v", res, ch.checked)
	}
}

func TestResolve_CancelMidSequence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := &cancellingChecker{cancel: cancel}
	res := Resolve(ctx, ch, []string{"a", "b", "c"})
	if res.Found {
		t.Fatalf("got %+v, want not found", res)
	}
	if ch.calls != 1 {
		t.Fatalf("made %d checks after cancellation, want 1", ch.calls)
	}
}

// cancellingChecker cancels the context during its first check.
type cancellingChecker struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingChecker) Exists(ctx context.Context, url string) bool {
	c.calls++
	c.cancel()
	return false
}

func TestHTTPChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("got method %s, want HEAD", r.Method)
		}
		if r.URL.Path == "/exists" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	ch := &HTTPChecker{Client: srv.Client()}
	if !ch.Exists(context.Background(), srv.URL+"/exists") {
		t.Fatal("expected 200 to count as found")
	}
	if ch.Exists(context.Background(), srv.URL+"/missing") {
		t.Fatal("expected 404 to count as a miss")
	}
}

func TestHTTPChecker_TransportFailureIsMiss(t *testing.T) {
	ch := &HTTPChecker{}
	// A port that nothing listens on: connection refused, not a panic.
	if ch.Exists(context.Background(), "http://127.0.0.1:1/x") {
		t.Fatal("transport failure must be a miss")
	}
}
