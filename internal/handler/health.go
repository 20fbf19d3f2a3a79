// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/cache"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/scheduler"
)

// healthProbeTimeout bounds the backend probe.
const healthProbeTimeout = 3 * time.Second

// healthProbePath is a cheap public backend list.
const healthProbePath = pathCategories

// JobLister reports the scheduled jobs.
type JobLister interface {
	List() []scheduler.JobInfo
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	backend   apiclient.Doer
	cache     *cache.Manager
	jobs      JobLister
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. cache and jobs may be nil.
func NewHealthHandler(backend apiclient.Doer, cm *cache.Manager, jobs JobLister, version string) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		cache:     cm,
		jobs:      jobs,
		version:   version,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed health response for back-office users.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *CacheInfo       `json:"cache,omitempty"`
	Jobs      []JobStatus      `json:"jobs,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// CacheInfo describes the catalogue cache.
type CacheInfo struct {
	Backend string       `json:"backend"`
	Groups  []string     `json:"groups"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// JobStatus is the state of one scheduled job.
type JobStatus struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run,omitzero"`
	LastError string    `json:"last_error,omitempty"`
	NextRun   time.Time `json:"next_run,omitzero"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// Health handles GET /health. Anonymous callers get the overall status only;
// back-office users get the checks, cache and job details.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	backend := h.checkBackend(r.Context())

	overall := statusHealthy
	code := http.StatusOK
	if backend.Status != statusHealthy {
		overall = statusDegraded
		code = http.StatusServiceUnavailable
	}

	user := middleware.GetUser(r)
	if user == nil || !user.Role.CanAccessBackOffice() {
		writeJSON(w, code, HealthStatusPublic{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"backend": backend},
	}
	if h.cache != nil {
		info := &CacheInfo{Backend: string(h.cache.Kind()), Groups: h.cache.Groups()}
		if stats, ok := h.cache.Stats(); ok {
			info.Stats = &stats
		}
		status.Cache = info
	}
	if h.jobs != nil {
		for _, j := range h.jobs.List() {
			status.Jobs = append(status.Jobs, JobStatus{
				Name:      j.Name,
				Schedule:  j.Schedule,
				LastRun:   j.LastRun,
				LastError: j.LastError,
				NextRun:   j.NextRun,
			})
		}
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. The site is ready when the backend
// answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	backend := h.checkBackend(r.Context())
	if backend.Status == statusHealthy {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	resp := map[string]string{"status": "not_ready"}
	if user := middleware.GetUser(r); user != nil && user.Role.CanAccessBackOffice() {
		resp["message"] = backend.Message
	}
	writeJSON(w, http.StatusServiceUnavailable, resp)
}

// checkBackend probes a public backend list.
func (h *HealthHandler) checkBackend(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	start := time.Now()
	err := h.backend.Do(ctx, apiclient.Get(healthProbePath), nil)
	latency := time.Since(start)
	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Latency: latency.String()}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
