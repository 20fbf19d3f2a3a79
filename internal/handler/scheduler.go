// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/scheduler"
)

const redirectAdminScheduler = "/admin/scheduler"

// JobRunner lists and triggers the scheduled jobs.
type JobRunner interface {
	JobLister
	TriggerNow(name string) error
}

// SchedulerHandler handles scheduler admin routes.
type SchedulerHandler struct {
	deps *Deps
	jobs JobRunner
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(deps *Deps, jobs JobRunner) *SchedulerHandler {
	return &SchedulerHandler{deps: deps, jobs: jobs}
}

// Routes mounts the scheduler pages on r.
func (h *SchedulerHandler) Routes(r chi.Router) {
	r.Get(RouteRoot, h.List)
	r.Post("/{name}/trigger", h.Trigger)
}

// SchedulerJobView represents a job for the template.
type SchedulerJobView struct {
	Name        string
	Description string
	Schedule    string
	LastRun     string
	LastError   string
	NextRun     string
}

func formatRun(job scheduler.JobInfo) (last, next string) {
	last, next = "-", "-"
	if !job.LastRun.IsZero() {
		last = job.LastRun.Format("2006-01-02 15:04:05")
	}
	if !job.NextRun.IsZero() {
		next = job.NextRun.Format("2006-01-02 15:04:05")
	}
	return last, next
}

// List handles GET /admin/scheduler - displays all scheduled jobs.
func (h *SchedulerHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.List()
	views := make([]SchedulerJobView, 0, len(jobs))
	for _, job := range jobs {
		last, next := formatRun(job)
		views = append(views, SchedulerJobView{
			Name:        job.Name,
			Description: job.Description,
			Schedule:    job.Schedule,
			LastRun:     last,
			LastError:   job.LastError,
			NextRun:     next,
		})
	}

	h.deps.Renderer.RenderPage(w, r, "admin/scheduler", render.TemplateData{
		Title: "Scheduled jobs",
		Nav:   "scheduler",
		User:  middleware.GetUser(r),
		Data:  views,
		Breadcrumbs: []render.Breadcrumb{
			{Label: "Dashboard", URL: redirectAdmin},
			{Label: "Scheduled jobs", URL: redirectAdminScheduler, Active: true},
		},
	})
}

// Trigger handles POST /admin/scheduler/{name}/trigger - runs a job now.
func (h *SchedulerHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.jobs.TriggerNow(name); err != nil {
		h.deps.logger().WarnContext(r.Context(), "manual job run failed", "job", name, "error", err)
		flashError(w, r, h.deps.Renderer, redirectAdminScheduler, "Job "+name+" failed: "+err.Error())
		return
	}
	h.deps.logger().InfoContext(r.Context(), "job triggered", "job", name, "triggered_by", middleware.GetUserID(r))
	flashSuccess(w, r, h.deps.Renderer, redirectAdminScheduler, "Job "+name+" completed")
}
