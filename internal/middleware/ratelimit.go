// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/olegiv/restro-web/internal/metrics"
	"github.com/olegiv/restro-web/internal/util"
)

// maxLimiters bounds the per-IP limiter maps between sweeps.
const maxLimiters = 10000

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()
	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

func (lc *limiterCache[K]) size() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// FormLimiter throttles anonymous form posts (contact, franchise, job
// applications) per client IP.
type FormLimiter struct {
	cache      *limiterCache[string]
	trustProxy bool
}

// NewFormLimiter allows rps posts per second per IP with the given burst.
func NewFormLimiter(rps float64, burst int, trustProxy bool) *FormLimiter {
	if rps <= 0 {
		rps = 0.2
	}
	if burst <= 0 {
		burst = 3
	}
	return &FormLimiter{cache: newLimiterCache[string](rps, burst), trustProxy: trustProxy}
}

// Allow reports whether ip may post now.
func (fl *FormLimiter) Allow(ip string) bool {
	return fl.cache.get(ip).Allow()
}

// Sweep drops all limiters once the map grows past its bound.
func (fl *FormLimiter) Sweep() {
	if fl.cache.clearIfExceeds(maxLimiters) {
		slog.Info("cleared form rate limiters due to size")
	}
}

// Middleware limits POST requests. GET requests render the form freely.
func (fl *FormLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		ip := util.ClientIP(r, fl.trustProxy)
		if !fl.Allow(ip) {
			metrics.RateLimited.WithLabelValues(routePattern(r)).Inc()
			slog.WarnContext(r.Context(), "form rate limit exceeded", "ip", ip, "path", r.URL.Path)
			http.Error(w, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routePattern returns the chi route pattern of r, or its path outside a
// chi router.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
