package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter holds one token bucket per key (IP or user id). Buckets idle
// for longer than limiterIdleTTL are dropped on the next sweep.
type KeyedLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func NewKeyedLimiter(r rate.Limit, b int) *KeyedLimiter {
	return &KeyedLimiter{
		visitors: make(map[string]*visitor),
		limit:    r,
		burst:    b,
		now:      time.Now,
	}
}

func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > limiterIdleTTL {
		for key, v := range k.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(k.visitors, key)
			}
		}
		k.lastSweep = now
	}

	v, ok := k.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// SetClock replaces the time source; tests only.
func (k *KeyedLimiter) SetClock(now func() time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.now = now
}

func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.visitors)
}

func limitBy(k *KeyedLimiter, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := key(c)
		if id == "" || k.Allow(id) {
			c.Next()
			return
		}
		response.Abort(c, http.StatusTooManyRequests, apperror.CodeRateLimited, "Too many requests, please slow down")
	}
}

// RateLimitByIP: r = request per detik, b = burst.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	return limitBy(NewKeyedLimiter(r, b), func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByUser dipasang setelah Auth; request tanpa user tidak dibatasi.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	return limitBy(NewKeyedLimiter(r, b), func(c *gin.Context) string { return c.GetString(ContextUserID) })
}
