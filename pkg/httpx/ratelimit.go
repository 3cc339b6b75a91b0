package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/console/pkg/slogx"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a request could not obtain a token before
// its context expired.
var ErrRateLimited = errors.New("httpx: client rate limit exceeded")

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

var (
	// LoginLimit throttles credential submissions so a stuck retry loop
	// cannot hammer the authenticate endpoint.
	// Override with: RATELIMIT_LOGIN_REQUESTS, RATELIMIT_LOGIN_WINDOW_SEC, RATELIMIT_LOGIN_BURST
	LoginLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	// DefaultLimit applies to every other API call.
	// Override with: RATELIMIT_DEFAULT_REQUESTS, RATELIMIT_DEFAULT_WINDOW_SEC, RATELIMIT_DEFAULT_BURST
	DefaultLimit = RateLimitConfig{
		RequestsPerWindow: 600,
		Window:            time.Minute,
		Burst:             50,
	}
)

func init() {
	LoginLimit = ParseRateLimitFromEnv("LOGIN", LoginLimit)
	DefaultLimit = ParseRateLimitFromEnv("DEFAULT", DefaultLimit)
}

// ParseRateLimitFromEnv reads rate limit configuration from environment variables.
// Environment variables follow the pattern: RATELIMIT_{prefix}_{field}
// For example: RATELIMIT_LOGIN_REQUESTS, RATELIMIT_LOGIN_WINDOW_SEC, RATELIMIT_LOGIN_BURST
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_REQUESTS"); val != "" {
		if requests, err := strconv.Atoi(val); err == nil && requests > 0 {
			config.RequestsPerWindow = requests
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	if val := os.Getenv("RATELIMIT_" + prefix + "_BURST"); val != "" {
		if burst, err := strconv.Atoi(val); err == nil && burst > 0 {
			config.Burst = burst
		}
	}

	return config
}

// KeyExtractor groups outgoing requests into buckets that share a limiter.
type KeyExtractor func(*http.Request) string

// HostKeyExtractor buckets requests by target host.
func HostKeyExtractor(r *http.Request) string {
	return r.URL.Host
}

// Rule pairs a path suffix with the limit applied to requests ending in it.
type Rule struct {
	PathSuffix string
	Limit      RateLimitConfig
}

type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
}

func limiterFor(config RateLimitConfig) *rate.Limiter {
	ratePerSecond := float64(config.RequestsPerWindow) / config.Window.Seconds()
	return rate.NewLimiter(rate.Limit(ratePerSecond), config.Burst)
}

func (rl *rateLimiter) getLimiter(key string, config RateLimitConfig) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := rl.limiters.LoadOrStore(key, limiterFor(config))
	return actual.(*rate.Limiter)
}

// RateLimitTransport delays outgoing requests so they stay under the
// configured rate. Requests whose path matches a rule use that rule's limit,
// everything else uses fallback. A request that cannot get a token before
// its context ends fails with ErrRateLimited and is never sent.
func RateLimitTransport(next http.RoundTripper, fallback RateLimitConfig, rules ...Rule) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &rateLimitTransport{
		next:     next,
		fallback: fallback,
		rules:    rules,
		key:      HostKeyExtractor,
	}
}

type rateLimitTransport struct {
	next     http.RoundTripper
	fallback RateLimitConfig
	rules    []Rule
	key      KeyExtractor
	rl       rateLimiter
}

func (t *rateLimitTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	config := t.fallback
	key := t.key(r)
	for _, rule := range t.rules {
		if strings.HasSuffix(r.URL.Path, rule.PathSuffix) {
			config = rule.Limit
			key = key + " " + rule.PathSuffix
			break
		}
	}

	limiter := t.rl.getLimiter(key, config)
	if !limiter.Allow() {
		log := slogx.FromContext(r.Context())
		log.Warn("rate limit: delaying request", "key", key, "path", r.URL.Path)

		if err := limiter.Wait(r.Context()); err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrRateLimited, r.Method, r.URL.Path, err)
		}
	}

	return t.next.RoundTrip(r)
}
