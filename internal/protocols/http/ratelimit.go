package http

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter tracks one client's token bucket and its last use so idle
// entries can be evicted.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles a route per client. Authenticated requests
// are keyed by user id, anonymous ones by IP. Used on the endpoints that fan
// out to the AI collaborator, where each request costs real quota.
func RateLimitMiddleware(requestsPerMinute, burst int) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*clientLimiter)
	)

	// Evict clients idle for more than 10 minutes
	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for key, cl := range clients {
				if time.Since(cl.lastSeen) > 10*time.Minute {
					delete(clients, key)
				}
			}
			mu.Unlock()
		}
	}()

	limit := rate.Every(time.Minute / time.Duration(requestsPerMinute))

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			key = userID
		}

		mu.Lock()
		cl, exists := clients[key]
		if !exists {
			cl = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
			clients[key] = cl
		}
		cl.lastSeen = time.Now()
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.JSON(429, gin.H{"error": "too many requests, slow down"})
			c.Abort()
			return
		}

		c.Next()
	}
}
