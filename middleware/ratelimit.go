package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorIdle is how long a client may stay quiet before its bucket is
// dropped; keeps the table from growing with every address ever seen.
const visitorIdle = 10 * time.Minute

type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

// RateLimit applies a per-client-IP token bucket of r tokens per second with
// burst b. Requests beyond the bucket get 429.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		visitors = map[string]*visitor{}
	)

	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for ip, v := range visitors {
				if time.Since(v.seen) > visitorIdle {
					delete(visitors, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{bucket: rate.NewLimiter(r, b)}
			visitors[ip] = v
		}
		v.seen = time.Now()
		mu.Unlock()

		if !v.bucket.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
