package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// webhookRecorder is an httptest webhook that records posted messages and the
// highest number of requests it saw in flight at once.
type webhookRecorder struct {
	mu          sync.Mutex
	messages    []string
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	requests    atomic.Int32
	handle      func(w http.ResponseWriter, n int32) bool
}

func (rec *webhookRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cur := rec.inFlight.Add(1)
	defer rec.inFlight.Add(-1)
	for {
		prev := rec.maxInFlight.Load()
		if cur <= prev || rec.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	n := rec.requests.Add(1)
	if rec.handle != nil && rec.handle(w, n) {
		return
	}

	var payload DiscordWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Embeds) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rec.mu.Lock()
	rec.messages = append(rec.messages, payload.Embeds[0].Fields[1].Value)
	rec.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (rec *webhookRecorder) posted() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.messages...)
}

func TestNotifierPostsInOrderOneAtATime(t *testing.T) {
	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n := NewNotifier(srv.URL, WithInterval(0))
	want := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		msg := fmt.Sprintf("entry %02d", i)
		want = append(want, msg)
		n.Enqueue(Success, "100", msg)
	}
	n.Close()

	assert.Equal(t, want, rec.posted())
	assert.Equal(t, int32(1), rec.maxInFlight.Load())
}

func TestNotifierPacesPosts(t *testing.T) {
	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n := NewNotifier(srv.URL, WithInterval(20*time.Millisecond))
	start := time.Now()
	for i := 0; i < 4; i++ {
		n.Enqueue(Warn, "100", fmt.Sprintf("entry %d", i))
	}
	n.Close()

	assert.Len(t, rec.posted(), 4)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestNotifierRetriesAfterRateLimit(t *testing.T) {
	rec := &webhookRecorder{
		handle: func(w http.ResponseWriter, n int32) bool {
			if n == 1 {
				w.Header().Set("Retry-After", "0.01")
				w.WriteHeader(http.StatusTooManyRequests)
				return true
			}
			return false
		},
	}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n := NewNotifier(srv.URL, WithInterval(0))
	n.Enqueue(Error, "100", "first")
	n.Enqueue(Error, "100", "second")
	n.Close()

	assert.Equal(t, []string{"first", "second"}, rec.posted())
	assert.Equal(t, int32(3), rec.requests.Load())
}

func TestNotifierGivesUpAfterRetries(t *testing.T) {
	rec := &webhookRecorder{
		handle: func(w http.ResponseWriter, n int32) bool {
			if n <= 4 {
				w.Header().Set("Retry-After", "0.001")
				w.WriteHeader(http.StatusTooManyRequests)
				return true
			}
			return false
		},
	}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n := NewNotifier(srv.URL, WithInterval(0))
	n.Enqueue(Error, "100", "dropped")
	n.Enqueue(Error, "100", "kept")
	n.Close()

	assert.Equal(t, []string{"kept"}, rec.posted())
}

func TestNotifierDisabledIsNoop(t *testing.T) {
	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
	nilNotifier.Enqueue(Error, "100", "ignored")
	nilNotifier.Close()

	n := NewNotifier("")
	assert.False(t, n.Enabled())
	n.Enqueue(Error, "100", "ignored")
	n.Close()
}

func TestNotifierEnqueueAfterCloseIsDropped(t *testing.T) {
	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	n := NewNotifier(srv.URL, WithInterval(0))
	n.Close()
	require.NotPanics(t, func() { n.Enqueue(Error, "100", "late") })
	n.Close()

	assert.Empty(t, rec.posted())
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		body   string
		want   time.Duration
	}{
		{"header seconds", "2", "", 2 * time.Second},
		{"header fractional", "0.5", "", 500 * time.Millisecond},
		{"body field", "", `{"retry_after": 1.5}`, 1500 * time.Millisecond},
		{"fallback", "", "not json", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, retryAfter(h, []byte(tt.body)))
		})
	}
}
