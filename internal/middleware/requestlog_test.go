// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/restro-web/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenID, seenPath string
	r := chi.NewRouter()
	r.Use(RequestLogger(logger, false))
	r.Get("/branches/{id}/order", func(w http.ResponseWriter, r *http.Request) {
		seenID = logging.RequestID(r.Context())
		seenPath = logging.RequestPath(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodGet, "/branches/3/order", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	_, err := uuid.Parse(seenID)
	require.NoError(t, err, "request ID should be a UUID")
	assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "/branches/3/order", seenPath)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "/branches/{id}/order", line["route"])
	assert.Equal(t, float64(http.StatusAccepted), line["status"])
	assert.Equal(t, "mobile", line["device"])
	assert.Equal(t, "192.0.2.1", line["ip"])
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	RequestLogger(logger, false)(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\nforged")
	rec = httptest.NewRecorder()
	RequestLogger(logger, false)(okHandler).ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid\nforged", rec.Header().Get(RequestIDHeader))
}

func TestRequestLogger_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	rec := httptest.NewRecorder()
	RequestLogger(logger, false)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	assert.Empty(t, buf.String(), "static assets log at debug")

	rec = httptest.NewRecorder()
	RequestLogger(logger, false)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.Contains(t, buf.String(), "path=/menu")
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name   string
		ua     string
		device string
	}{
		{"googlebot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot"},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", "desktop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseUserAgent(tt.ua)
			assert.Equal(t, tt.device, got.Device)
			assert.NotEmpty(t, got.Browser)
			assert.NotEmpty(t, got.OS)
		})
	}
}
