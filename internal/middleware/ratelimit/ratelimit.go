// Package ratelimit throttles requests per client IP with a fixed
// one-minute window.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const window = time.Minute

// Limiter counts requests per client in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	now     func() time.Time
	limit   int
	hits    atomic.Int64

	staleAfter   time.Duration
	sweepEvery   time.Duration
	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

type bucket struct {
	start    time.Time
	last     time.Time
	requests int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Decision is the outcome of one request against its client's window.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// NewLimiter creates a new rate limiter. Call Stop to end its sweep loop.
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}

	rl := &Limiter{
		clients:    make(map[string]*bucket),
		now:        time.Now,
		limit:      config.RequestsPerMinute,
		staleAfter: 10 * time.Minute,
		sweepEvery: config.CleanupInterval,
		stopSweep:  make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Take counts one request from clientIP and reports whether it fits.
func (rl *Limiter) Take(clientIP string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[clientIP]
	if !ok || now.Sub(w.start) >= window {
		w = &bucket{start: now}
		rl.clients[clientIP] = w
	}
	w.requests++
	w.last = now

	d := Decision{Limit: rl.limit, Remaining: max(rl.limit-w.requests, 0)}
	if w.requests <= rl.limit {
		d.Allowed = true
		return d
	}
	rl.hits.Add(1)
	d.RetryAfter = w.start.Add(window).Sub(now)
	return d
}

// Allow reports whether a request from clientIP fits its window.
func (rl *Limiter) Allow(clientIP string) bool {
	return rl.Take(clientIP).Allowed
}

func (rl *Limiter) sweepLoop() {
	ticker := time.NewTicker(rl.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stopSweep:
			return
		}
	}
}

// sweep forgets clients idle for longer than staleAfter.
func (rl *Limiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.staleAfter)
	n := 0
	for ip, w := range rl.clients {
		if w.last.Before(cutoff) {
			delete(rl.clients, ip)
			n++
		}
	}
	return n
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Hits returns how many requests were rejected so far.
func (rl *Limiter) Hits() int64 {
	return rl.hits.Load()
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (rl *Limiter) Stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopSweep)
	})
}

// Middleware limits requests whose method is in methods; an empty list
// limits every request. Limited responses carry X-RateLimit-Limit and
// X-RateLimit-Remaining. onLimit writes the rejection; nil sends a plain 429.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request), methods ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(limited) > 0 && !limited[r.Method] {
				next.ServeHTTP(w, r)
				return
			}
			d := rl.Take(extractIP(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			if !d.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "rate limit exceeded, try again later", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
