package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/v1/jobs/x/recommended-resumes", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/v1/jobs/x/recommended-resumes", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, time.Second.Seconds(), info.RetryAfter.Seconds(), 0.01)
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 1})
	defer l.Stop()

	allowed, _ := l.Allow("c", "/p", "GET")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/p", "GET")
	require.False(t, allowed)

	*now = now.Add(1100 * time.Millisecond)
	allowed, _ = l.Allow("c", "/p", "GET")
	assert.True(t, allowed)
}

func TestLimiter_DeniedRequestDoesNotConsume(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 1})
	defer l.Stop()

	l.Allow("c", "/p", "GET")
	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c", "/p", "GET")
		require.False(t, allowed)
	}

	*now = now.Add(time.Second)
	allowed, _ := l.Allow("c", "/p", "GET")
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 1})
	defer l.Stop()

	a, _ := l.Allow("a", "/p", "GET")
	b, _ := l.Allow("b", "/p", "GET")
	assert.True(t, a)
	assert.True(t, b)
}

func TestLimiter_DisabledWhitelistBlacklist(t *testing.T) {
	disabled := NewLimiter(&Config{Enabled: false})
	for i := 0; i < 100; i++ {
		allowed, _ := disabled.Allow("c", "/p", "GET")
		require.True(t, allowed)
	}

	l, _ := newTestLimiter(&Config{
		Enabled:      true,
		DefaultRate:  1,
		DefaultBurst: 1,
		Whitelist:    map[string]bool{"good": true},
		Blacklist:    map[string]bool{"bad": true},
	})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("good", "/p", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("bad", "/p", "GET")
	assert.False(t, allowed)
}

func TestLimiter_EndpointOverride(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultRate:     100,
		DefaultBurst:    100,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	path := "/v1/cache/invalidate"
	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("c", path, "POST")
		require.True(t, allowed)
	}
	allowed, info := l.Allow("c", path, "POST")
	assert.False(t, allowed)
	assert.Equal(t, 2, info.Limit)

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_IDsInPathShareBucket(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultRate:     0.01,
		DefaultBurst:    2,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("c", fmt.Sprintf("/v1/resumes/%d/recommended-jobs", i), "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/v1/resumes/99/recommended-jobs", "GET")
	assert.False(t, allowed, "a new id in the path must not get a fresh bucket")

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", fmt.Sprintf("/v1/jobs/%d/keywords", i), "PUT")
		require.True(t, allowed)
	}
	allowed, info := l.Allow("c", "/v1/jobs/42/keywords", "PUT")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)

	assert.Len(t, l.buckets, 2)
	assert.Contains(t, l.buckets, bucketKey("c", defaultScope, "GET"))
	assert.Contains(t, l.buckets, bucketKey("c", "/v1/jobs/", "PUT"))
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 1, IdleTTL: time.Minute})
	defer l.Stop()

	l.Allow("old", "/p", "GET")
	*now = now.Add(2 * time.Minute)
	l.Allow("new", "/p", "GET")

	l.cleanupBuckets()
	assert.Len(t, l.buckets, 1)
	_, ok := l.buckets[bucketKey("new", defaultScope, "GET")]
	assert.True(t, ok)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultRate: 0.001, DefaultBurst: 50})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/p", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowedCount)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultRate: 1, DefaultBurst: 1, CleanupInterval: time.Minute})
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()
	jobID := "0f8fad5b-d9cb-469f-a165-70867728950e"

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/health", "GET", 0, false},
		{"/metrics", "GET", 0, false},
		{"/v1/cache/invalidate", "POST", 10, false},
		{fmt.Sprintf("/v1/jobs/%s/rank-resumes", jobID), "POST", 60, false},
		{fmt.Sprintf("/v1/jobs/%s/keywords", jobID), "PUT", 60, false},
		{fmt.Sprintf("/v1/jobs/%s/recommended-resumes", jobID), "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_WHITELIST", "127.0.0.1, 10.0.0.1")

	cfg := DefaultConfig(5, 10)
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Whitelist["10.0.0.1"])
	assert.Len(t, cfg.Whitelist, 2)

	assert.False(t, DefaultConfig(0, 10).Enabled)
}
