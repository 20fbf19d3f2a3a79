// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers of the public site and the
// back-office, both of which read and write through the backend API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/render"
)

// DashboardStats holds the counters displayed on the dashboard.
type DashboardStats struct {
	MenuItems           int
	Branches            int
	OpenBranches        int
	ActivePositions     int
	PendingApplications int
	PendingFranchise    int
	PendingTestimonials int
}

// DashboardData holds all dashboard data including stats and recent items.
type DashboardData struct {
	Stats              DashboardStats
	RecentApplications []model.JobApplication
	Sections           []NavItem
	Failed             []string // collections that could not be loaded
}

// recentLimit is the number of recent applications on the dashboard.
const recentLimit = 5

// AdminHandler serves the back-office dashboard and mounts the resources.
type AdminHandler struct {
	deps      *Deps
	resources []AdminResource
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(deps *Deps, resources []AdminResource) *AdminHandler {
	return &AdminHandler{deps: deps, resources: resources}
}

// Routes mounts the dashboard and every resource under r.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Get(RouteRoot, h.Dashboard)
	r.Get(RouteSchemas, h.Schema)
	for _, res := range h.resources {
		r.Route("/"+res.Slug(), res.Routes)
	}
}

// Sections returns the resources user may open.
func (h *AdminHandler) Sections(user *model.User) []NavItem {
	var items []NavItem
	for _, res := range h.resources {
		if item := res.NavItem(); item.Visible(user) {
			items = append(items, item)
		}
	}
	return items
}

// dashboardLoad fetches one backend collection for the dashboard.
type dashboardLoad struct {
	name  string
	path  string
	apply func(data *DashboardData, body any)
	into  func() any
}

func load[T any](name, path string, apply func(*DashboardData, []T)) dashboardLoad {
	return dashboardLoad{
		name:  name,
		path:  path,
		into:  func() any { return new([]T) },
		apply: func(d *DashboardData, body any) { apply(d, *body.(*[]T)) },
	}
}

func dashboardLoads() []dashboardLoad {
	return []dashboardLoad{
		load(pathMenu, pathMenu, func(d *DashboardData, items []model.MenuItem) {
			d.Stats.MenuItems = len(items)
		}),
		load(pathBranches, pathBranches, func(d *DashboardData, items []model.Branch) {
			s := model.CountBranches(items)
			d.Stats.Branches, d.Stats.OpenBranches = s.Total, s.Open
		}),
		load(pathJobPositions, pathJobPositions, func(d *DashboardData, items []model.JobPosition) {
			for _, p := range items {
				if p.Status == model.PositionActive {
					d.Stats.ActivePositions++
				}
			}
		}),
		load(pathJobApplications, pathJobApplications, func(d *DashboardData, items []model.JobApplication) {
			for _, a := range items {
				if a.Status == model.ApplicationPending {
					d.Stats.PendingApplications++
				}
			}
			recent := slices.Clone(items)
			slices.SortStableFunc(recent, func(a, b model.JobApplication) int {
				return b.CreatedAt.Compare(a.CreatedAt.Time)
			})
			d.RecentApplications = recent[:min(recentLimit, len(recent))]
		}),
		load(pathFranchise, pathFranchise, func(d *DashboardData, items []model.FranchiseRequest) {
			for _, f := range items {
				if f.RequestStatus == model.StatusPending {
					d.Stats.PendingFranchise++
				}
			}
		}),
		load(pathTestimonials, pathTestimonials, func(d *DashboardData, items []model.Testimonial) {
			for _, t := range items {
				if t.Status == model.StatusPending {
					d.Stats.PendingTestimonials++
				}
			}
		}),
	}
}

// loadDashboard fetches the dashboard collections concurrently. A failed
// collection leaves its counters at zero; only an expired session aborts.
func (h *AdminHandler) loadDashboard(ctx context.Context, api apiclient.Doer) (DashboardData, error) {
	var (
		data DashboardData
		mu   sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range dashboardLoads() {
		g.Go(func() error {
			body := l.into()
			if err := api.Do(gctx, apiclient.Get(l.path), body); err != nil {
				if errors.Is(err, apiclient.ErrSessionExpired) {
					return err
				}
				h.deps.logger().WarnContext(ctx, "dashboard load failed", "path", l.path, "error", err)
				mu.Lock()
				data.Failed = append(data.Failed, l.name)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			l.apply(&data, body)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	slices.Sort(data.Failed)
	return data, err
}

// Dashboard renders the admin dashboard with stats and recent activity.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	data, err := h.loadDashboard(r.Context(), h.deps.session())
	if redirectIfExpired(w, r, h.deps.Renderer, err) {
		return
	}
	data.Sections = h.Sections(user)

	h.deps.Renderer.RenderPage(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Nav:   "dashboard",
		User:  user,
		Breadcrumbs: []render.Breadcrumb{
			{Label: "Dashboard", URL: redirectAdmin, Active: true},
		},
		Data: data,
	})
}
