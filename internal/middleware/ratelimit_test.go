package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_BurstThenLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()
	r := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:1234"), "a throttled client does not affect others")
}

func TestRateLimiter_RefillsContinuously(t *testing.T) {
	// Built directly so the fake clock is in place before any goroutine runs.
	clock := time.Unix(1700000000, 0)
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		capacity: 2,
		rate:     2 / time.Minute.Seconds(),
		maxIdle:  3 * time.Minute,
		now:      func() time.Time { return clock },
		stop:     make(chan struct{}),
	}
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))

	// Half the interval restores half the capacity, enough for one request.
	clock = clock.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234"))
}

func TestRateLimiter_LimitedResponseUsesEnvelope(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Close()
	r := limitedRouter(rl)

	hit(r, "10.0.0.1:1234")
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}
