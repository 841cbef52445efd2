package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopadmin/backend/internal/interfaces/http/dto"
	"golang.org/x/time/rate"
)

// Throttler keeps one token bucket per client key. Each bucket holds limit
// tokens and refills at limit per ttl, so a client gets limit requests per
// window with bursts up to limit.
type Throttler struct {
	mu      sync.Mutex
	clients map[string]*throttleClient
	limit   int
	every   rate.Limit
	ttl     time.Duration
	now     func() time.Time
}

type throttleClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottler creates a throttler allowing limit requests per ttl.
// Idle clients are evicted by Run.
func NewThrottler(limit int, ttl time.Duration) *Throttler {
	if limit <= 0 {
		limit = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Throttler{
		clients: make(map[string]*throttleClient),
		limit:   limit,
		every:   rate.Limit(float64(limit) / ttl.Seconds()),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow consumes a token for key. It returns false and the time until the
// next token when the bucket is empty.
func (t *Throttler) Allow(key string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	c, ok := t.clients[key]
	if !ok {
		c = &throttleClient{limiter: rate.NewLimiter(t.every, t.limit)}
		t.clients[key] = c
	}
	c.lastSeen = now

	r := c.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Remaining returns the whole tokens left for key
func (t *Throttler) Remaining(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.clients[key]
	if !ok {
		return t.limit
	}
	return int(math.Max(0, math.Floor(c.limiter.TokensAt(t.now()))))
}

// Run evicts clients idle for two windows until ctx is done
func (t *Throttler) Run(ctx context.Context) {
	ticker := time.NewTicker(2 * t.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.evict()
		}
	}
}

func (t *Throttler) evict() {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-2 * t.ttl)
	for key, c := range t.clients {
		if c.lastSeen.Before(cutoff) {
			delete(t.clients, key)
		}
	}
}

// Throttle limits requests per client IP
func Throttle(t *Throttler) gin.HandlerFunc {
	return ThrottleByKey(t, func(c *gin.Context) string { return c.ClientIP() })
}

// ThrottleByKey limits requests per key extracted from the request
func ThrottleByKey(t *Throttler, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		allowed, retryAfter := t.Allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(t.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(t.Remaining(key)))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeTooManyRequests,
				"Too many requests. Please try again later.")
			return
		}

		c.Next()
	}
}
