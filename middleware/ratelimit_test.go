package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterDoesNotSerializeSlowHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter())
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	start := time.Now()
	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		wg.Add(1)
		go func(i int, addr string) {
			defer wg.Done()
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/slow", nil)
			req.RemoteAddr = addr
			r.ServeHTTP(w, req)
			codes[i] = w.Code
		}(i, addr)
	}
	wg.Wait()
	elapsed := time.Since(start)

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	// Two 300ms handlers running back to back would take 600ms; in
	// parallel they finish in a little over 300ms.
	assert.Less(t, elapsed, 500*time.Millisecond,
		"concurrent requests must not run one at a time")
}

func TestTakeEnforcesWindowBudget(t *testing.T) {
	rl := &rateLimiter{
		requests: make(map[string]*clientRequest),
		limit:    2,
		window:   time.Minute,
	}

	allowed, _ := rl.take("10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = rl.take("10.0.0.1")
	assert.True(t, allowed)

	allowed, retryAfter := rl.take("10.0.0.1")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))

	// Other clients have their own budget.
	allowed, _ = rl.take("10.0.0.2")
	assert.True(t, allowed)
}

func TestTakeResetsAfterWindow(t *testing.T) {
	rl := &rateLimiter{
		requests: make(map[string]*clientRequest),
		limit:    1,
		window:   10 * time.Millisecond,
	}

	allowed, _ := rl.take("10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = rl.take("10.0.0.1")
	assert.False(t, allowed)

	time.Sleep(20 * time.Millisecond)

	allowed, _ = rl.take("10.0.0.1")
	assert.True(t, allowed)
}
