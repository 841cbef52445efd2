package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward without sleeping
type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestThrottler(limit int, ttl time.Duration) (*Throttler, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	th := NewThrottler(limit, ttl)
	th.now = clock.now
	return th, clock
}

func TestThrottler_Allow(t *testing.T) {
	th, clock := newTestThrottler(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := th.Allow("1.2.3.4")
		require.True(t, ok, "request %d", i+1)
	}

	ok, retry := th.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.InDelta(t, 20*time.Second, retry, float64(time.Second))
	assert.Equal(t, 0, th.Remaining("1.2.3.4"))

	// other clients have their own bucket
	ok, _ = th.Allow("5.6.7.8")
	assert.True(t, ok)

	// one token refills every ttl/limit
	clock.advance(20 * time.Second)
	ok, _ = th.Allow("1.2.3.4")
	assert.True(t, ok)

	clock.advance(time.Minute)
	assert.Equal(t, 3, th.Remaining("1.2.3.4"))
}

func TestThrottler_Evict(t *testing.T) {
	th, clock := newTestThrottler(5, time.Minute)
	th.Allow("idle")
	clock.advance(90 * time.Second)
	th.Allow("active")

	clock.advance(60 * time.Second)
	th.evict()

	th.mu.Lock()
	defer th.mu.Unlock()
	assert.NotContains(t, th.clients, "idle")
	assert.Contains(t, th.clients, "active")
}

func TestThrottler_RunStopsOnCancel(t *testing.T) {
	th := NewThrottler(1, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		th.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestThrottleMiddleware(t *testing.T) {
	th, _ := newTestThrottler(2, time.Minute)

	router := gin.New()
	router.Use(Throttle(th))
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "198.51.100.7:5555"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send().Code)

	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "30", blocked.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrCodeTooManyRequests, decodeError(t, blocked).Code)
}
