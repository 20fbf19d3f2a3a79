// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/restro-web/internal/geoip"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/resource"
	"github.com/olegiv/restro-web/internal/service"
	"github.com/olegiv/restro-web/internal/util"
	"github.com/olegiv/restro-web/internal/validation"
)

// Public page messages.
const (
	msgMenuUnavailable     = "We couldn't load the menu right now. Please try again later."
	msgBranchesUnavailable = "We couldn't load our locations right now. Please try again later."
	msgGalleryUnavailable  = "We couldn't load the gallery right now. Please try again later."
	msgJobsUnavailable     = "We couldn't load open positions right now. Please try again later."
	msgLinksUnavailable    = "We couldn't load the ordering options right now. Please try again later."
	msgPositionNotFound    = "This position could not be found."
)

// FrontendHandler serves the public site.
type FrontendHandler struct {
	deps       *Deps
	catalog    *service.Catalog
	inquiries  *service.Inquiries
	geo        *geoip.Lookup
	trustProxy bool
}

// NewFrontendHandler creates a new FrontendHandler. geo may be nil.
func NewFrontendHandler(deps *Deps, catalog *service.Catalog, inquiries *service.Inquiries, geo *geoip.Lookup, trustProxy bool) *FrontendHandler {
	return &FrontendHandler{deps: deps, catalog: catalog, inquiries: inquiries, geo: geo, trustProxy: trustProxy}
}

// Routes mounts the public pages on r. Form posts pass through limit.
func (h *FrontendHandler) Routes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Get(RouteRoot, h.Home)
	r.Get(RouteMenu, h.Menu)
	r.Get(RouteBranches, h.Branches)
	r.Get(RouteBranchOrder, h.BranchOrder)
	r.Get(RouteGallery, h.Gallery)
	r.Get(RouteJobs, h.Jobs)
	r.Get(RouteJobApply, h.JobApplyForm)
	r.Get(RouteFranchise, h.FranchiseForm)
	r.Get(RouteContact, h.ContactForm)
	r.Get(RouteAbout, h.About)

	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post(RouteJobApply, h.JobApply)
		r.Post(RouteFranchise, h.Franchise)
		r.Post(RouteContact, h.Contact)
	})
}

func (h *FrontendHandler) page(w http.ResponseWriter, r *http.Request, status int, name, nav, title string, banner resource.Banner, data any) {
	h.deps.Renderer.RenderPageStatus(w, r, status, name, render.TemplateData{
		Title:  title,
		Nav:    nav,
		User:   middleware.GetUser(r),
		Banner: banner,
		Data:   data,
	})
}

func (h *FrontendHandler) unavailable(ctx context.Context, what string, err error, msg string) resource.Banner {
	h.deps.logger().ErrorContext(ctx, "public page data unavailable", "collection", what, "error", err)
	return resource.ErrorBanner(msg)
}

// DietTab is one diet filter of the specials strip.
type DietTab struct {
	Label  string
	URL    string
	Active bool
}

func dietTabs(path string, active service.Diet) []DietTab {
	tabs := []struct {
		diet  service.Diet
		label string
	}{
		{service.DietAll, "All"},
		{service.DietVeg, "Veg"},
		{service.DietNonVeg, "Non-Veg"},
	}
	out := make([]DietTab, len(tabs))
	for i, t := range tabs {
		url := path
		if t.diet != service.DietAll {
			url += "?diet=" + string(t.diet)
		}
		out[i] = DietTab{Label: t.label, URL: url, Active: t.diet == active}
	}
	return out
}

// HomeData holds data for the home page.
type HomeData struct {
	Specials     []model.MenuItem
	DietTabs     []DietTab
	Testimonials []model.Testimonial
	Branches     int
}

// Home renders the landing page with the specials and approved testimonials.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	diet := service.ParseDiet(r.URL.Query().Get("diet"))
	data := HomeData{DietTabs: dietTabs(RouteRoot, diet)}
	var banner resource.Banner

	var g errgroup.Group
	var specialsErr error
	g.Go(func() error {
		data.Specials, specialsErr = h.catalog.Specials(ctx, diet)
		return nil
	})
	g.Go(func() error {
		var err error
		if data.Testimonials, err = h.catalog.Testimonials(ctx); err != nil {
			h.deps.logger().WarnContext(ctx, "loading testimonials failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		branches, err := h.catalog.Branches(ctx)
		if err != nil {
			h.deps.logger().WarnContext(ctx, "loading branches failed", "error", err)
		}
		data.Branches = len(branches)
		return nil
	})
	_ = g.Wait()
	if specialsErr != nil {
		banner = h.unavailable(ctx, "specials", specialsErr, msgMenuUnavailable)
	}

	h.page(w, r, http.StatusOK, "public/home", "home", "", banner, data)
}

// MenuData holds data for the menu page.
type MenuData struct {
	Sections []model.MenuSection
	Specials []model.MenuItem
	DietTabs []DietTab
}

// Menu renders the available menu grouped by category.
func (h *FrontendHandler) Menu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	diet := service.ParseDiet(r.URL.Query().Get("diet"))
	data := MenuData{DietTabs: dietTabs(RouteMenu, diet)}
	var banner resource.Banner

	items, err := h.catalog.Menu(ctx)
	if err != nil {
		banner = h.unavailable(ctx, "menu", err, msgMenuUnavailable)
	} else {
		available := make([]model.MenuItem, 0, len(items))
		for _, it := range items {
			if it.IsAvailable && it.CategoryName != model.SpecialsCategory {
				available = append(available, it)
			}
		}
		data.Sections = model.GroupMenu(available)
		data.Specials = service.FilterSpecials(items, diet)
	}

	h.page(w, r, http.StatusOK, "public/menu", "menu", "Menu", banner, data)
}

// BranchCard is a branch in the locator.
type BranchCard struct {
	geoip.BranchDistance
	OrderURL string
	MapURL   string
}

// BranchesData holds data for the branch locator.
type BranchesData struct {
	Branches []BranchCard
	Cities   []string
	City     string
	Located  bool
	Stats    model.BranchStats
}

// Branches renders the branch locator, nearest first when the visitor can
// be located.
func (h *FrontendHandler) Branches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	data := BranchesData{City: city}
	var banner resource.Banner

	all, err := h.catalog.Branches(ctx)
	if err != nil {
		banner = h.unavailable(ctx, "branches", err, msgBranchesUnavailable)
	}
	data.Cities = service.Cities(all)
	data.Stats = model.CountBranches(all)

	visible := all
	if city != "" {
		visible = service.InCity(all, city)
	}
	var loc geoip.Location
	if h.geo != nil {
		loc, data.Located = h.geo.Locate(util.ClientIP(r, h.trustProxy))
	}
	for _, b := range geoip.NearestFirst(visible, loc) {
		card := BranchCard{
			BranchDistance: b,
			OrderURL:       "/branches/" + util.IDSlug(b.ID, b.Name) + "/order",
		}
		if b.HasLocation() {
			card.MapURL = "https://www.google.com/maps?q=" + strconv.FormatFloat(b.Latitude, 'f', 6, 64) + "," + strconv.FormatFloat(b.Longitude, 'f', 6, 64)
		}
		data.Branches = append(data.Branches, card)
	}

	h.page(w, r, http.StatusOK, "public/branches", "branches", "Our branches", banner, data)
}

// BranchOrderData holds data for the order links of one branch.
type BranchOrderData struct {
	Branch model.Branch
	Links  []model.OnlineOrderLink
}

// BranchOrder lists the delivery platforms of one branch.
func (h *FrontendHandler) BranchOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := util.ParseIDSlug(chi.URLParam(r, "id"))
	if !ok {
		h.NotFound(w, r)
		return
	}
	branch, found, err := h.catalog.Branch(ctx, id)
	if err != nil {
		h.page(w, r, http.StatusOK, "public/branch_order", "branches", "Order online",
			h.unavailable(ctx, "branches", err, msgBranchesUnavailable), BranchOrderData{})
		return
	}
	if !found {
		h.NotFound(w, r)
		return
	}

	data := BranchOrderData{Branch: branch}
	var banner resource.Banner
	if data.Links, err = h.catalog.OrderLinks(ctx, branch.ID); err != nil {
		banner = h.unavailable(ctx, "order links", err, msgLinksUnavailable)
	}
	h.page(w, r, http.StatusOK, "public/branch_order", "branches", "Order from "+branch.Name, banner, data)
}

// Gallery renders the images of the selected category.
func (h *FrontendHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	catID, _ := strconv.ParseInt(r.URL.Query().Get("category"), 10, 64)
	var banner resource.Banner

	gallery, err := h.catalog.Gallery(ctx, catID)
	if err != nil {
		banner = h.unavailable(ctx, "gallery", err, msgGalleryUnavailable)
	}
	h.page(w, r, http.StatusOK, "public/gallery", "gallery", "Gallery", banner, gallery)
}

// JobCard is a position in the careers list.
type JobCard struct {
	model.JobPosition
	ApplyURL string
}

// JobsData holds data for the careers page.
type JobsData struct {
	Positions []JobCard
	Title     string
	JobType   string
	JobTypes  []string
}

// Jobs lists the open positions, filtered by title and job type.
func (h *FrontendHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	data := JobsData{
		Title:    strings.TrimSpace(q.Get("title")),
		JobType:  strings.TrimSpace(q.Get("type")),
		JobTypes: model.JobTypes,
	}
	var banner resource.Banner

	positions, err := h.catalog.JobPositions(ctx, data.Title, data.JobType)
	if err != nil {
		banner = h.unavailable(ctx, "job positions", err, msgJobsUnavailable)
	}
	for _, p := range positions {
		if p.AcceptsApplications() {
			data.Positions = append(data.Positions, JobCard{JobPosition: p, ApplyURL: applyURL(p)})
		}
	}
	h.page(w, r, http.StatusOK, "public/jobs", "jobs", "Careers", banner, data)
}

func applyURL(p model.JobPosition) string {
	return "/jobs/" + util.IDSlug(p.ID, p.Title) + "/apply"
}

// PublicForm holds data for a public form page.
type PublicForm struct {
	Action    string
	Multipart bool
	Fields    []FieldView
	FormError string
	Position  *model.JobPosition
}

func publicForm(action string, f *resource.Form) PublicForm {
	return PublicForm{
		Action:    action,
		Multipart: f.Schema.HasFile(),
		Fields:    fieldViews(f, nil),
		FormError: f.Error(validation.FormKey),
	}
}

// position loads the position named by the id URL parameter. It answers
// the request itself when the position is unavailable.
func (h *FrontendHandler) position(w http.ResponseWriter, r *http.Request) (model.JobPosition, bool) {
	id, ok := util.ParseIDSlug(chi.URLParam(r, "id"))
	if !ok {
		h.NotFound(w, r)
		return model.JobPosition{}, false
	}
	pos, found, err := h.catalog.JobPosition(r.Context(), id)
	if err != nil {
		flashAndRedirect(w, r, h.deps.Renderer, RouteJobs, h.unavailable(r.Context(), "job positions", err, msgJobsUnavailable))
		return model.JobPosition{}, false
	}
	if !found {
		flashError(w, r, h.deps.Renderer, RouteJobs, msgPositionNotFound)
		return model.JobPosition{}, false
	}
	return pos, true
}

func (h *FrontendHandler) renderApply(w http.ResponseWriter, r *http.Request, status int, pos model.JobPosition, f *resource.Form, banner resource.Banner) {
	data := publicForm(applyURL(pos), f)
	data.Position = &pos
	h.page(w, r, status, "public/job_apply", "jobs", "Apply for "+pos.Title, banner, data)
}

// JobApplyForm renders the application form of a position.
func (h *FrontendHandler) JobApplyForm(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	if !pos.AcceptsApplications() {
		flashError(w, r, h.deps.Renderer, RouteJobs, service.MsgApplicationsClosed)
		return
	}
	h.renderApply(w, r, http.StatusOK, pos, resource.NewForm(validation.JobApplySchema), resource.Banner{})
}

// JobApply submits an application.
func (h *FrontendHandler) JobApply(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	f := resource.NewForm(validation.JobApplySchema)
	if err := f.Bind(r, h.deps.MaxUpload); err != nil {
		h.deps.logger().WarnContext(r.Context(), "binding application failed", "error", err)
		flashError(w, r, h.deps.Renderer, applyURL(pos), msgInvalidForm)
		return
	}

	banner, err := h.inquiries.SubmitApplication(r.Context(), pos, f)
	switch {
	case err == nil:
		flashAndRedirect(w, r, h.deps.Renderer, RouteJobs, banner)
	case errors.Is(err, service.ErrPositionClosed):
		flashAndRedirect(w, r, h.deps.Renderer, RouteJobs, banner)
	case errors.Is(err, resource.ErrInvalid):
		h.renderApply(w, r, http.StatusUnprocessableEntity, pos, f, banner)
	default:
		h.renderApply(w, r, http.StatusOK, pos, f, banner)
	}
}

// submitPublic handles a public form post and re-renders the draft unless
// the submission succeeded.
func (h *FrontendHandler) submitPublic(w http.ResponseWriter, r *http.Request, schema *validation.Schema, action string,
	submit func(context.Context, *resource.Form) (resource.Banner, error), rerender func(int, *resource.Form, resource.Banner)) {
	f := resource.NewForm(schema)
	if err := f.Bind(r, h.deps.MaxUpload); err != nil {
		h.deps.logger().WarnContext(r.Context(), "binding public form failed", "form", schema.Resource, "error", err)
		flashError(w, r, h.deps.Renderer, action, msgInvalidForm)
		return
	}
	banner, err := submit(r.Context(), f)
	switch {
	case err == nil:
		flashAndRedirect(w, r, h.deps.Renderer, action, banner)
	case errors.Is(err, resource.ErrInvalid):
		rerender(http.StatusUnprocessableEntity, f, banner)
	default:
		rerender(http.StatusOK, f, banner)
	}
}

func (h *FrontendHandler) renderFranchise(w http.ResponseWriter, r *http.Request, status int, f *resource.Form, banner resource.Banner) {
	h.page(w, r, status, "public/franchise", "franchise", "Own a franchise", banner, publicForm(RouteFranchise, f))
}

// FranchiseForm renders the franchise inquiry form.
func (h *FrontendHandler) FranchiseForm(w http.ResponseWriter, r *http.Request) {
	h.renderFranchise(w, r, http.StatusOK, resource.NewForm(validation.FranchiseSchema), resource.Banner{})
}

// Franchise submits a franchise inquiry.
func (h *FrontendHandler) Franchise(w http.ResponseWriter, r *http.Request) {
	h.submitPublic(w, r, validation.FranchiseSchema, RouteFranchise, h.inquiries.SubmitFranchise,
		func(status int, f *resource.Form, banner resource.Banner) { h.renderFranchise(w, r, status, f, banner) })
}

// ContactData holds data for the contact page.
type ContactData struct {
	PublicForm
	Testimonials []model.Testimonial
}

func (h *FrontendHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, f *resource.Form, banner resource.Banner) {
	data := ContactData{PublicForm: publicForm(RouteContact, f)}
	var err error
	if data.Testimonials, err = h.catalog.Testimonials(r.Context()); err != nil {
		h.deps.logger().WarnContext(r.Context(), "loading testimonials failed", "error", err)
	}
	h.page(w, r, status, "public/contact", "contact", "Contact us", banner, data)
}

// ContactForm renders the contact form with approved testimonials.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, resource.NewForm(validation.ContactSchema), resource.Banner{})
}

// Contact submits a testimonial for moderation.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.submitPublic(w, r, validation.ContactSchema, RouteContact, h.inquiries.SubmitTestimonial,
		func(status int, f *resource.Form, banner resource.Banner) { h.renderContact(w, r, status, f, banner) })
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	branches, err := h.catalog.Branches(r.Context())
	if err != nil {
		h.deps.logger().WarnContext(r.Context(), "loading branches failed", "error", err)
	}
	h.page(w, r, http.StatusOK, "public/about", "about", "About us", resource.Banner{}, model.CountBranches(branches))
}

// NotFound renders the public 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusNotFound, "public/404", "", "Page not found", resource.Banner{}, msgNotFound)
}
