package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// PerMinute is the gateway's default limiter configuration
func PerMinute(limit int) RateLimitConfig {
	return RateLimitConfig{Window: time.Minute, Limit: limit, KeyPrefix: "rate_limit:api"}
}

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter decides whether the caller identified by key may make another
// request. Peek reports the same numbers without counting a request.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Peek(ctx context.Context, key string) (Decision, error)
	Config() RateLimitConfig
}

// RateLimiter is a fixed-window limiter shared by every gateway instance through Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

func (rl *RateLimiter) Config() RateLimitConfig { return rl.config }

// Allow counts a request against the current window
func (rl *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(incrCmd.Val())
	return Decision{
		Allowed:   count <= rl.config.Limit,
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		Reset:     windowStart.Add(rl.config.Window),
	}, nil
}

// Peek reports the requests left in the current window without counting one
func (rl *RateLimiter) Peek(ctx context.Context, key string) (Decision, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())
	d := Decision{Allowed: true, Limit: rl.config.Limit, Remaining: rl.config.Limit, Reset: windowStart.Add(rl.config.Window)}

	count, err := rl.redis.Get(ctx, redisKey).Int()
	if err == redis.Nil {
		return d, nil
	}
	if err != nil {
		return Decision{}, err
	}
	d.Remaining = max(rl.config.Limit-count, 0)
	d.Allowed = d.Remaining > 0
	return d, nil
}

type localBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalLimiter is a token bucket per key held in process memory, used when
// no Redis is configured. Each bucket refills Limit tokens per Window. A bucket
// untouched for a whole Window is full again and gets dropped on the next sweep.
type LocalLimiter struct {
	config RateLimitConfig
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
}

// NewLocalLimiter creates an in-process limiter
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{config: config, now: time.Now, buckets: make(map[string]*localBucket)}
}

func (l *LocalLimiter) Config() RateLimitConfig { return l.config }

func (l *LocalLimiter) interval() time.Duration {
	return l.config.Window / time.Duration(max(l.config.Limit, 1))
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{lim: rate.NewLimiter(rate.Every(l.interval()), l.config.Limit)}
		l.buckets[key] = b
	}
	b.seen = now
	l.mu.Unlock()

	allowed := b.lim.AllowN(now, 1)
	return l.decision(b.lim, now, allowed), nil
}

func (l *LocalLimiter) Peek(_ context.Context, key string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	l.mu.Unlock()
	if !ok {
		return Decision{Allowed: true, Limit: l.config.Limit, Remaining: l.config.Limit, Reset: now}, nil
	}
	d := l.decision(b.lim, now, true)
	d.Allowed = d.Remaining > 0
	return d, nil
}

// Len is the number of buckets currently held
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *LocalLimiter) decision(lim *rate.Limiter, now time.Time, allowed bool) Decision {
	remaining := max(int(lim.TokensAt(now)), 0)
	reset := now
	if remaining == 0 {
		reset = now.Add(l.interval())
	}
	return Decision{Allowed: allowed, Limit: l.config.Limit, Remaining: remaining, Reset: reset}
}

// sweep drops idle buckets at most once per Window. Caller holds l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.Window {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.seen) >= l.config.Window {
			delete(l.buckets, key)
		}
	}
}

// RateLimitKey identifies the caller: the authenticated user, else the client IP
func RateLimitKey(c *gin.Context) string {
	if userID := UserID(c); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// RateLimitMiddleware enforces limiter per authenticated user, or per client
// IP for anonymous requests. A failing limiter store lets the request through.
func RateLimitMiddleware(limiter Limiter, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	cfg := limiter.Config()
	return func(c *gin.Context) {
		key := RateLimitKey(c)

		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limit check failed", "key", key, "err", err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			retryAfter := max(int(time.Until(d.Reset).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", cfg.Limit, cfg.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
