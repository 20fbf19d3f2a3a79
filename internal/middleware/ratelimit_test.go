// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestLimiterCacheReturnsSameLimiter(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	if lc.get("a") != lc.get("a") {
		t.Error("expected the same limiter for the same key")
	}
	if lc.get("a") == lc.get("b") {
		t.Error("expected distinct limiters for distinct keys")
	}
}

func TestLimiterCacheConcurrentGet(t *testing.T) {
	lc := newLimiterCache[int](1, 1)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lc.get(i % 5)
		}()
	}
	wg.Wait()
	if n := lc.size(); n != 5 {
		t.Errorf("size = %d, want 5", n)
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	for i := range 3 {
		lc.get(fmt.Sprint(i))
	}
	if lc.clearIfExceeds(5) {
		t.Error("should not clear below the bound")
	}
	if !lc.clearIfExceeds(2) {
		t.Error("should clear above the bound")
	}
	if lc.size() != 0 {
		t.Errorf("size after clear = %d", lc.size())
	}
}

func TestFormLimiterMiddleware(t *testing.T) {
	fl := NewFormLimiter(0.001, 1, false)
	h := fl.Middleware(okHandler)

	send := func(method, remote string) int {
		req := httptest.NewRequest(method, "/contact", strings.NewReader("name=x"))
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodPost, "49.36.10.2:1"); code != http.StatusOK {
		t.Fatalf("first POST = %d", code)
	}
	if code := send(http.MethodPost, "49.36.10.2:2"); code != http.StatusTooManyRequests {
		t.Errorf("second POST from the same IP = %d, want 429", code)
	}
	if code := send(http.MethodPost, "49.36.10.3:1"); code != http.StatusOK {
		t.Errorf("POST from another IP = %d, want 200", code)
	}
	if code := send(http.MethodGet, "49.36.10.2:3"); code != http.StatusOK {
		t.Errorf("GET = %d, want 200", code)
	}
}

func TestNewFormLimiterDefaults(t *testing.T) {
	fl := NewFormLimiter(0, 0, false)
	if fl.cache.burst != 3 {
		t.Errorf("burst = %d, want 3", fl.cache.burst)
	}
}
