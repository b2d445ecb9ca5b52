package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/bausingcode/bausing-backend/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Fixed-window per-IP limiter. The storefront runs behind a single instance,
// so in-process counters are enough; nothing here survives a restart.
type limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	count    int
	resetsAt time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	l := &limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go l.purgeLoop()
	return l
}

// allow counts a request from ip and reports whether it is within the limit,
// along with when the current window resets.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[ip]
	if !ok || now.After(b.resetsAt) {
		b = &bucket{resetsAt: now.Add(l.window)}
		l.buckets[ip] = b
	}

	b.count++
	return b.count <= l.limit, b.resetsAt
}

// purgeLoop drops buckets whose window already closed so IPs that never come
// back don't accumulate.
func (l *limiter) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, b := range l.buckets {
			if now.After(b.resetsAt) {
				delete(l.buckets, ip)
				purged++
			}
		}
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate limiter buckets purged")
		}
	}
}

// RateLimiter caps requests per IP across the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window)
	return func(c *gin.Context) {
		ok, resetsAt := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", resetsAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter throttles credential attempts harder than the general API:
// 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute)
	return func(c *gin.Context) {
		ok, _ := l.allow(c.ClientIP())
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}
