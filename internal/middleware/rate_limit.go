package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/airlinereservation/booking-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	onReject func(ip, path, userAgent string)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter creates a limiter allowing rps requests per second with the given burst per IP
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
	}
}

// Allow reports whether a request from ip may proceed now
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Cleanup forgets clients idle longer than the TTL and returns how many were removed
func (l *IPRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-l.idleTTL)
	for ip, v := range l.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// OnReject registers a callback run for every rejected request
func (l *IPRateLimiter) OnReject(fn func(ip, path, userAgent string)) {
	l.onReject = fn
}

// Middleware rejects requests over the limit with 429
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := utils.GetRealIP(c)
		if !l.Allow(ip) {
			if l.onReject != nil {
				l.onReject(ip, c.Request.URL.Path, utils.GetUserAgent(c))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":         false,
				"responseMessage": "Too many requests, please try again later",
				"code":            "RATE_LIMIT_EXCEEDED",
			})
			return
		}
		c.Next()
	}
}
