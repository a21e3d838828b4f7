package middleware

import (
	"Clipper/internal/pkg/response"
	"Clipper/internal/service"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdle = 5 * time.Minute

type ipLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// IPRateLimiter 每个客户端 IP 一个令牌桶，闲置超时后回收
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	perMinute = max(perMinute, 1)
	return &IPRateLimiter{
		limiters: make(map[string]*ipLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, v := range l.limiters {
		if now.After(v.expires) {
			delete(l.limiters, k)
		}
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.expires = now.Add(limiterIdle)
	return entry.limiter.AllowN(now, 1)
}

// RateLimitMiddleware 超出频率返回 429
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.Error(c, service.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
