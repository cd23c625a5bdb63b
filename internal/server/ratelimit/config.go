package ratelimit

import (
	"os"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window, 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Rate returns the refill rate in requests per second.
func (c *EndpointConfig) Rate() float64 {
	if c.Limit <= 0 || c.Window <= 0 {
		return 0
	}
	return float64(c.Limit) / c.Window.Seconds()
}

func (c *EndpointConfig) burst() int {
	if c.Burst > 0 {
		return c.Burst
	}
	return c.Limit
}

// DefaultConfig returns an enabled configuration with the given default rate and burst,
// the default endpoint overrides, and the whitelist/blacklist read from
// RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST. A non-positive rate disables limiting.
func DefaultConfig(ratePerSecond float64, burst int) *Config {
	return &Config{
		Enabled:         ratePerSecond > 0,
		DefaultRate:     ratePerSecond,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Admin writes (strictest limits)
		{Path: "/v1/cache/invalidate", Method: "POST", Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "/v1/jobs/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},

		// Full applicant-pool scoring
		{Path: "/v1/jobs/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Reads use the default rate; /health and /metrics are unlimited (see matcher)
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}
