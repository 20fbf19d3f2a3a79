// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_backend_requests_total",
			Help: "Total number of requests sent to the backend API",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restro_backend_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_token_refreshes_total",
			Help: "Token refresh attempts by result",
		},
		[]string{"result"},
	)

	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_mutations_total",
			Help: "Back-office mutations by resource, operation and result",
		},
		[]string{"resource", "operation", "result"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_cache_lookups_total",
			Help: "Public cache lookups by key group and result",
		},
		[]string{"group", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_http_requests_total",
			Help: "HTTP requests served by route pattern and status class",
		},
		[]string{"route", "status"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_rate_limited_total",
			Help: "Requests rejected by the public form limiter",
		},
		[]string{"route"},
	)

	LogEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restro_log_events_total",
			Help: "Warning and error log records by level",
		},
		[]string{"level"},
	)
)
