// Package ratelimit provides per-client rate limiting backed by golang.org/x/time/rate token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultRate     float64 // requests per second
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused for longer are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

type bucket struct {
	limiter    *rate.Limiter
	burst      int
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	config      *Config
	now         func() time.Time
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig(10, 20)
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		now:     time.Now,
	}

	// Start cleanup goroutine if enabled
	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	// Requests that match no endpoint config share one default bucket per client and
	// method, so paths carrying ids cannot mint fresh buckets.
	limit, burst, scope := l.config.DefaultRate, l.config.DefaultBurst, defaultScope
	if ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs); ec != nil {
		// Unlimited endpoint (e.g., health check)
		if ec.Limit <= 0 {
			return true, Info{Allowed: true}
		}
		limit, burst, scope = ec.Rate(), ec.burst(), ec.Path
	}
	if limit <= 0 {
		return true, Info{Allowed: true}
	}
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(limit)))
	}

	key := bucketKey(clientID, scope, method)
	now := l.now()
	b := l.getBucket(key, limit, burst, now)

	allowed := true
	var retryAfter time.Duration
	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		allowed = false
	} else if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		allowed = false
		retryAfter = delay
	}

	tokens := b.limiter.TokensAt(now)
	remaining := max(0, int(math.Floor(tokens)))
	resetTime := now
	if missing := float64(b.burst) - tokens; missing > 0 {
		resetTime = now.Add(time.Duration(missing / limit * float64(time.Second)))
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      b.burst,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// defaultScope names the bucket used by requests without an endpoint config.
const defaultScope = "*"

// bucketKey identifies a bucket by client, matched endpoint config path and method.
func bucketKey(clientID, scope, method string) string {
	return clientID + ":" + scope + ":" + method
}

// getBucket gets or creates the bucket for key.
func (l *Limiter) getBucket(key string, limit float64, burst int, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(limit), burst), burst: burst}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

// cleanup removes old unused buckets to prevent memory leaks.
func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets that have been idle longer than IdleTTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-l.config.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
