// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/olegiv/restro-web/internal/logging"
	"github.com/olegiv/restro-web/internal/metrics"
	"github.com/olegiv/restro-web/internal/util"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns a request ID, stores it with the path for log
// records, and logs one line per request with the parsed user agent.
// Static assets and health probes are logged at debug level.
func RequestLogger(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(logging.WithRequest(r.Context(), id, r.URL.Path))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case quietPath(r.URL.Path):
				level = slog.LevelDebug
			}
			if !logger.Enabled(r.Context(), level) {
				return
			}

			ua := parseUserAgent(r.UserAgent())
			logger.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("ip", util.ClientIP(r, trustProxy)),
				slog.String("browser", ua.Browser),
				slog.String("os", ua.OS),
				slog.String("device", ua.Device),
			)
		})
	}
}

func quietPath(path string) bool {
	return strings.HasPrefix(path, "/static/") || path == "/health" || path == "/metrics"
}

// ParsedUA is the part of a user agent worth logging.
type ParsedUA struct {
	Browser string
	OS      string
	Device  string
}

func parseUserAgent(s string) ParsedUA {
	ua := useragent.Parse(s)
	parsed := ParsedUA{Browser: ua.Name, OS: ua.OS}
	if parsed.Browser == "" {
		parsed.Browser = "Unknown"
	}
	if parsed.OS == "" {
		parsed.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		parsed.Device = "bot"
	case ua.Tablet:
		parsed.Device = "tablet"
	case ua.Mobile:
		parsed.Device = "mobile"
	default:
		parsed.Device = "desktop"
	}
	return parsed
}
