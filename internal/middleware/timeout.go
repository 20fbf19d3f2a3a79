// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"time"
)

// TimeoutMessage is the body sent when a request runs out of time.
const TimeoutMessage = "Request timeout"

// Timeout bounds each request. The handler's context is canceled at the
// deadline, which aborts in-flight backend calls, and the client gets a 503.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, TimeoutMessage)
	}
}
