package middleware

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter counts hits for a key within a fixed window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type visitor struct {
	count       int64
	windowStart time.Time
	lastSeen    time.Time
}

// MemoryCounter keeps per-process counters.
type MemoryCounter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (c *MemoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	v, exists := c.visitors[key]
	if !exists || now.Sub(v.windowStart) >= window {
		c.visitors[key] = &visitor{count: 1, windowStart: now, lastSeen: now}
		return 1, nil
	}

	v.count++
	v.lastSeen = now
	return v.count, nil
}

// Cleanup drops visitors idle for longer than window.
func (c *MemoryCounter) Cleanup(window time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, v := range c.visitors {
		if now.Sub(v.lastSeen) > window {
			delete(c.visitors, key)
		}
	}
}

// RedisCounter shares counters across server instances.
type RedisCounter struct {
	client *redis.Client
	prefix string
}

func NewRedisCounter(client *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{client: client, prefix: prefix}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := fmt.Sprintf("%s:%s", c.prefix, key)

	count, err := c.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("redis rate counter: %w", err)
	}
	// First hit opens the window.
	if count == 1 {
		if err := c.client.Expire(ctx, k, window).Err(); err != nil {
			return 0, fmt.Errorf("redis rate counter expiry: %w", err)
		}
	}
	return count, nil
}

type RateLimiter struct {
	counter Counter
	limit   int64
	window  time.Duration
}

func NewRateLimiter(counter Counter, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
	}
}

// StartCleanup evicts idle in-memory visitors until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	mc, ok := rl.counter.(*MemoryCounter)
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(rl.window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mc.Cleanup(rl.window)
			}
		}
	}()
}

// Allow records a hit for key and reports whether it is within the limit.
// Counter failures let the request through.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	count, err := rl.counter.Incr(ctx, key, rl.window)
	if err != nil {
		log.Printf("WARNING: rate limiter unavailable: %v", err)
		return true
	}
	return count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(r.Context(), clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr; chi's RealIP runs first.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
