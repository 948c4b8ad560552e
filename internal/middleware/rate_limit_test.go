package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)

	assert.True(t, limiter.Allow("203.0.113.1"))
	assert.True(t, limiter.Allow("203.0.113.1"))
	assert.False(t, limiter.Allow("203.0.113.1"), "burst exhausted")

	assert.True(t, limiter.Allow("203.0.113.2"), "other clients have their own bucket")
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.idleTTL = time.Millisecond

	limiter.Allow("203.0.113.1")
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, limiter.Cleanup())
	assert.True(t, limiter.Allow("203.0.113.1"), "forgotten client starts with a full bucket")
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	limiter := NewIPRateLimiter(0.001, 1)
	var rejectedIP, rejectedPath string
	limiter.OnReject(func(ip, path, userAgent string) {
		rejectedIP, rejectedPath = ip, path
	})
	router.POST("/login", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.Header.Set("X-Real-IP", "198.51.100.23")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Equal(t, "198.51.100.23", rejectedIP)
	assert.Equal(t, "/login", rejectedPath)
}
