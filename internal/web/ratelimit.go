package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/jaarrekening/internal/web/middleware"
)

// visitorTTL is how long an idle client keeps its bucket.
const visitorTTL = 3 * time.Minute

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newRateLimiter allows perMinute requests per IP with the given burst.
func newRateLimiter(perMinute, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
	}
}

// cleanup drops idle visitors every minute until ctx ends.
func (rl *rateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict(time.Now())
		}
	}
}

func (rl *rateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// allow consumes a token for ip.
func (rl *rateLimiter) allow(ip string) bool {
	return rl.get(ip).Allow()
}

// retryAfter is the wait, in whole seconds, until one token is available.
func (rl *rateLimiter) retryAfter() string {
	if rl.limit <= 0 {
		return "60"
	}
	secs := int(time.Duration(float64(time.Second)/float64(rl.limit)).Seconds()) + 1
	return strconv.Itoa(secs)
}

// middleware rejects requests over the limit with 429.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := middleware.ClientIP(r)
		if !rl.allow(ip) {
			slog.Warn("rate limit exceeded", "ip", ip, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", rl.retryAfter())
			writeError(w, r, http.StatusTooManyRequests, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
