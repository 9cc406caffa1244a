package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-auth-service/pkg/apperr"
)

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route path.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		return "rl:path:" + path + ":ip:" + ipFromCtx(c)
	}
}

// Atomic INCR + EXPIRE on first hit.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// memoryLimiter is the fallback used when Redis is not configured. It keeps
// per-key timestamp lists behind one lock, with a periodic sweep of stale
// entries so abandoned keys do not accumulate.
type memoryLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	lastSweep time.Time
}

const sweepInterval = 5 * time.Minute

func newMemoryLimiter() *memoryLimiter {
	return &memoryLimiter{requests: make(map[string][]time.Time), lastSweep: time.Now()}
}

func (l *memoryLimiter) allow(key string, max int, window time.Duration) (allowed bool, remaining int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()

	if now.Sub(l.lastSweep) > sweepInterval {
		for k, stamps := range l.requests {
			kept := pruneOlder(stamps, now, window)
			if len(kept) == 0 {
				delete(l.requests, k)
			} else {
				l.requests[k] = kept
			}
		}
		l.lastSweep = now
	}

	stamps := pruneOlder(l.requests[key], now, window)
	if len(stamps) >= max {
		l.requests[key] = stamps
		return false, 0
	}
	stamps = append(stamps, now)
	l.requests[key] = stamps
	return true, max - len(stamps)
}

func pruneOlder(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	kept := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < window {
			kept = append(kept, ts)
		}
	}
	return kept
}

// RateLimit limits requests per key within a sliding window. With a Redis
// client it uses an atomic Lua INCR/PEXPIRE and fails open on Redis errors;
// without one it falls back to an in-process limiter. OPTIONS requests are
// never counted.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	if max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	mem := newMemoryLimiter()

	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}
		key := keyFn(c)

		var allowed bool
		var remaining int
		if rdb != nil {
			countI, err := incrExpireScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Result()
			if err != nil {
				c.Next()
				return
			}
			count, _ := countI.(int64)
			allowed = int(count) <= max
			remaining = max - int(count)
		} else {
			allowed, remaining = mem.allow(key, max, window)
		}
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			apperr.Respond(c, nil, &apperr.Error{
				Code:    "RATE_LIMITED",
				Status:  http.StatusTooManyRequests,
				Message: "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
