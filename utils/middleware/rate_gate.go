package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/fedpoffa/cbt-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// RateGateConfig parameterizes a sliding-window admission controller
type RateGateConfig struct {
	MaxRequests int
	Window      time.Duration
}

// AuthRateGateConfig is the strict gate applied to authentication endpoints
func AuthRateGateConfig() RateGateConfig {
	return RateGateConfig{MaxRequests: 50, Window: 300 * time.Second}
}

// GeneralRateGateConfig is the lenient gate applied to the rest of the API
func GeneralRateGateConfig() RateGateConfig {
	return RateGateConfig{MaxRequests: 100, Window: 60 * time.Second}
}

// RateGate is an in-process sliding-window limiter keyed by client. It is
// best effort and not cluster-consistent; a horizontally scaled deployment
// needs an external shared counter instead. Constructed once per process
// and injected where needed, never held as package state.
type RateGate struct {
	config RateGateConfig

	mu        sync.Mutex
	windows   map[string][]time.Time
	lastSweep time.Time

	now func() time.Time
}

// NewRateGate creates a rate gate with the given configuration
func NewRateGate(config RateGateConfig) *RateGate {
	return &RateGate{
		config:  config,
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Admit records an admission attempt for the client key and reports
// whether it is allowed. Timestamps older than the window are dropped
// before the count is checked.
func (g *RateGate) Admit(clientKey string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-g.config.Window)

	// Evict idle clients once per window so the map does not grow
	// unbounded with one-off visitors
	if now.Sub(g.lastSweep) >= g.config.Window {
		g.sweep(cutoff)
		g.lastSweep = now
	}

	recent := g.windows[clientKey][:0]
	for _, ts := range g.windows[clientKey] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= g.config.MaxRequests {
		g.windows[clientKey] = recent
		return false
	}

	g.windows[clientKey] = append(recent, now)
	return true
}

// sweep removes clients whose newest timestamp has left the window.
// Timestamps are appended in order, so the last entry is the newest.
// Caller must hold the mutex.
func (g *RateGate) sweep(cutoff time.Time) {
	for key, stamps := range g.windows {
		if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
			delete(g.windows, key)
		}
	}
}

// Middleware returns a fiber handler enforcing the gate per client IP
func (g *RateGate) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !g.Admit(c.IP()) {
			c.Set("Retry-After", fmt.Sprintf("%d", int(g.config.Window.Seconds())))
			return response.TooManyRequests(c, "Too many requests. Please try again later.")
		}
		return c.Next()
	}
}
