// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/restro-web/internal/cache"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/render"
)

const (
	redirectAdminCache = "/admin/cache"
	msgCacheMissing    = "Cache system not initialized"
)

// CacheHandler handles cache management routes.
type CacheHandler struct {
	deps         *Deps
	cacheManager *cache.Manager
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(deps *Deps, cm *cache.Manager) *CacheHandler {
	return &CacheHandler{deps: deps, cacheManager: cm}
}

// Routes mounts the cache pages on r.
func (h *CacheHandler) Routes(r chi.Router) {
	r.Get(RouteRoot, h.Stats)
	r.Post("/clear", h.Clear)
	r.Post("/clear/{group}", h.ClearGroup)
}

// CacheStatsData holds data for the cache stats template.
type CacheStatsData struct {
	Backend  string
	IsRedis  bool
	Groups   []string
	Stats    cache.Stats
	HasStats bool
}

// Stats handles GET /admin/cache - displays cache statistics.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.cacheManager == nil {
		flashError(w, r, h.deps.Renderer, redirectAdmin, msgCacheMissing)
		return
	}

	data := CacheStatsData{
		Backend: string(h.cacheManager.Kind()),
		IsRedis: h.cacheManager.Kind() == cache.BackendRedis,
		Groups:  h.cacheManager.Groups(),
	}
	data.Stats, data.HasStats = h.cacheManager.Stats()

	h.deps.Renderer.RenderPage(w, r, "admin/cache", render.TemplateData{
		Title: "Cache",
		Nav:   "cache",
		User:  middleware.GetUser(r),
		Data:  data,
		Breadcrumbs: []render.Breadcrumb{
			{Label: "Dashboard", URL: redirectAdmin},
			{Label: "Cache", URL: redirectAdminCache, Active: true},
		},
	})
}

// Clear handles POST /admin/cache/clear - drops every catalogue group.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.cacheManager == nil {
		flashError(w, r, h.deps.Renderer, redirectAdminCache, msgCacheMissing)
		return
	}
	if err := h.cacheManager.InvalidateAll(r.Context()); err != nil {
		h.deps.logger().ErrorContext(r.Context(), "cache clear failed", "error", err)
		flashError(w, r, h.deps.Renderer, redirectAdminCache, "Failed to clear the cache.")
		return
	}
	h.deps.logger().InfoContext(r.Context(), "cache cleared", "cleared_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.deps.Renderer, redirectAdminCache, "All caches cleared successfully")
}

// ClearGroup handles POST /admin/cache/clear/{group}.
func (h *CacheHandler) ClearGroup(w http.ResponseWriter, r *http.Request) {
	if h.cacheManager == nil {
		flashError(w, r, h.deps.Renderer, redirectAdminCache, msgCacheMissing)
		return
	}
	group := chi.URLParam(r, "group")
	if !slices.Contains(h.cacheManager.Groups(), group) {
		flashError(w, r, h.deps.Renderer, redirectAdminCache, "Unknown cache group")
		return
	}
	if err := h.cacheManager.Invalidate(r.Context(), group); err != nil {
		h.deps.logger().ErrorContext(r.Context(), "cache group clear failed", "group", group, "error", err)
		flashError(w, r, h.deps.Renderer, redirectAdminCache, "Failed to clear the cache.")
		return
	}
	h.deps.logger().InfoContext(r.Context(), "cache group cleared", "group", group, "cleared_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.deps.Renderer, redirectAdminCache, "Cache group "+group+" cleared")
}
