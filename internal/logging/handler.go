// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging configures slog and provides a handler that adds request
// context to every record and counts warnings and errors.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/olegiv/restro-web/internal/metrics"
)

type contextKey string

const (
	keyRequestID   contextKey = "request_id"
	keyRequestPath contextKey = "request_path"
)

// WithRequest stores the request ID and path for log records.
func WithRequest(ctx context.Context, id, path string) context.Context {
	ctx = context.WithValue(ctx, keyRequestID, id)
	return context.WithValue(ctx, keyRequestPath, path)
}

// RequestID returns the request ID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// RequestPath returns the request path stored in ctx.
func RequestPath(ctx context.Context) string {
	path, _ := ctx.Value(keyRequestPath).(string)
	return path
}

// ContextHandler is a slog.Handler that wraps another handler, adds the
// request ID and path from the context and counts records at WARN and above.
type ContextHandler struct {
	inner slog.Handler
	level slog.Level // minimum level counted in metrics
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner, level: slog.LevelWarn}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if id := RequestID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if path := RequestPath(ctx); path != "" {
			r.AddAttrs(slog.String("request_path", path))
		}
	}
	if r.Level >= h.level {
		metrics.LogEvents.WithLabelValues(strings.ToLower(r.Level.String())).Inc()
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name), level: h.level}
}

// ParseLevel converts a config string to a slog level. Unknown values
// give info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger: text output in development, JSON
// otherwise.
func New(w io.Writer, level string, isDev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var inner slog.Handler
	if isDev {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}
	return slog.New(NewContextHandler(inner))
}
