package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shelfd/shelfd/internal/pkg/errcode"
	"github.com/shelfd/shelfd/internal/pkg/response"
)

const rateLimitKeyCap = 8192

type rateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	last   *lru.Cache[string, time.Time]
	now    func() time.Time
}

// RateLimit rejects a second request for the same ip|user|path inside the
// window. Keys live in a bounded LRU so an address scan cannot grow the map
// without limit.
func RateLimit(window time.Duration) gin.HandlerFunc {
	limiter := newRateLimiter(window)
	return limiter.handle
}

func newRateLimiter(window time.Duration) *rateLimiter {
	cache, _ := lru.New[string, time.Time](rateLimitKeyCap)
	return &rateLimiter{
		window: window,
		last:   cache,
		now:    time.Now,
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	if l.window <= 0 {
		c.Next()
		return
	}
	ip := c.ClientIP()
	uid := "0"
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			uid = id
		}
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{ip, uid, path}, "|")

	if !l.allow(key) {
		response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, "too many requests")
		c.Abort()
		return
	}
	c.Next()
}

func (l *rateLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.last.Get(key); ok && now.Sub(last) < l.window {
		return false
	}
	l.last.Add(key, now)
	return true
}
