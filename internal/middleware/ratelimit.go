package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openplanner/gradplan-backend/internal/response"
)

// RateLimiter is a per-IP token bucket guarding the login endpoints against
// credential stuffing. Buckets refill continuously, so a client that backs
// off regains capacity proportionally instead of waiting out a full window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	capacity float64 // burst size, also tokens per interval
	rate     float64 // tokens per second
	maxIdle  time.Duration

	now  func() time.Time // test seam
	stop chan struct{}
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter allows rate requests per interval per client IP and starts
// the eviction loop for idle buckets.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: float64(rate),
		rate:     float64(rate) / interval.Seconds(),
		maxIdle:  3 * interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.evictLoop(interval)
	return rl
}

// Middleware enforces the limit, answering 429 when a client's bucket is dry.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

// Close stops the eviction loop. Only tests need this; the server runs its
// limiters for the process lifetime.
func (rl *RateLimiter) Close() {
	close(rl.stop)
}

func (rl *RateLimiter) allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{tokens: rl.capacity, last: now}
		rl.buckets[ip] = b
	} else {
		b.tokens += now.Sub(b.last).Seconds() * rl.rate
		if b.tokens > rl.capacity {
			b.tokens = rl.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) evictLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := rl.now().Add(-rl.maxIdle)
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if b.last.Before(cutoff) {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}
