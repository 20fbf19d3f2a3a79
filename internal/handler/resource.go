// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/resource"
	"github.com/olegiv/restro-web/internal/session"
	"github.com/olegiv/restro-web/internal/validation"
)

// Deps are the collaborators shared by the admin handlers.
type Deps struct {
	API        *apiclient.Client
	Sessions   *session.Store
	Renderer   *render.Renderer
	FlashDelay time.Duration
	PageSize   int
	MaxUpload  int64
	Logger     *slog.Logger
}

// session returns a backend session bound to the request's stored tokens.
func (d *Deps) session() *apiclient.Session {
	return d.API.NewSession(d.Sessions)
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Options are select choices per form field.
type Options map[string][]model.Option

// Label returns the label of value in field, or value itself.
func (o Options) Label(field, value string) string {
	for _, opt := range o[field] {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Cell is one rendered table or detail value.
type Cell struct {
	Text     string
	Badge    string // badge class; empty renders plain text
	Image    string // media path
	Link     string
	Markdown bool
}

// Column is one admin table column.
type Column[T any] struct {
	Label string
	Sort  string // sort key; empty when the column is not sortable
	Cell  func(T) Cell
}

// Detail is one labelled value on a record page.
type Detail[T any] struct {
	Label string
	Cell  func(T) Cell
}

// ActionView renders a status transition form.
type ActionView[T any] struct {
	Name    string
	Label   string
	Options []model.Option
	Current func(T) string
}

// Stat is one summary counter above a list.
type Stat struct {
	Label string
	Value int
	Badge string
}

// View describes how a resource is presented in the back-office.
type View[T any] struct {
	Slug   string // URL segment under /admin
	Title  string // plural heading
	Noun   string
	Icon   string
	Roles  []model.Role // empty allows every back-office role
	Create bool
	Edit   bool

	Columns func(Options) []Column[T]
	Details func(Options) []Detail[T]
	Actions []ActionView[T]
	Tabs    []model.Option
	Summary func([]T) []Stat

	// Options loads select choices for form fields and table labels.
	Options func(ctx context.Context, api apiclient.Doer) (Options, error)
	// FilterField names the option list offered as the server-side filter.
	FilterField string
	// Prefill adjusts an edit draft built from a record.
	Prefill func(rec T, f *resource.Form, opts Options)
}

// ResourceHandler serves the list, form and detail pages of one resource.
type ResourceHandler[T model.Record] struct {
	deps     *Deps
	cfg      resource.Config[T]
	view     View[T]
	onChange []func(context.Context)
}

// NewResourceHandler creates a handler for cfg presented as view.
func NewResourceHandler[T model.Record](deps *Deps, cfg resource.Config[T], view View[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{deps: deps, cfg: cfg, view: view}
}

// OnChange registers fn to run after every successful write.
func (h *ResourceHandler[T]) OnChange(fn func(context.Context)) *ResourceHandler[T] {
	h.onChange = append(h.onChange, fn)
	return h
}

// Slug returns the URL segment of the resource.
func (h *ResourceHandler[T]) Slug() string { return h.view.Slug }

// NavItem returns the sidebar entry of the resource.
func (h *ResourceHandler[T]) NavItem() NavItem {
	return NavItem{Slug: h.view.Slug, Title: h.view.Title, Icon: h.view.Icon, URL: h.base(), Roles: h.view.Roles}
}

// Routes mounts the resource pages on r.
func (h *ResourceHandler[T]) Routes(r chi.Router) {
	if len(h.view.Roles) > 0 {
		r.Use(middleware.RequireRole(h.view.Roles...))
	}
	r.Get(RouteRoot, h.List)
	if h.view.Create {
		r.Get(RouteSuffixNew, h.New)
		r.Post(RouteRoot, h.Create)
	}
	r.Get(RouteParamID, h.Show)
	if h.view.Edit {
		r.Get(RouteParamID+RouteSuffixEdit, h.EditForm)
		r.Post(RouteParamID, h.Update)
	}
	r.Post(RouteParamID+RouteSuffixDelete, h.Delete)
	if len(h.view.Actions) > 0 {
		r.Post(RouteParamID+RouteSuffixAction, h.Action)
	}
}

func (h *ResourceHandler[T]) base() string {
	return redirectAdmin + "/" + h.view.Slug
}

func (h *ResourceHandler[T]) itemURL(id int64) string {
	return h.base() + "/" + strconv.FormatInt(id, 10)
}

func (h *ResourceHandler[T]) controller() *resource.Controller[T] {
	c := resource.NewController(h.deps.session(), h.cfg, h.deps.FlashDelay, h.deps.logger())
	for _, fn := range h.onChange {
		c.OnChange(fn)
	}
	return c
}

func (h *ResourceHandler[T]) options(ctx context.Context, api apiclient.Doer) Options {
	if h.view.Options == nil {
		return Options{}
	}
	opts, err := h.view.Options(ctx, api)
	if err != nil {
		h.deps.logger().WarnContext(ctx, "loading form options failed", "resource", h.view.Slug, "error", err)
		return Options{}
	}
	return opts
}

func (h *ResourceHandler[T]) breadcrumbs(extra ...render.Breadcrumb) []render.Breadcrumb {
	crumbs := []render.Breadcrumb{
		{Label: "Dashboard", URL: redirectAdmin},
		{Label: h.view.Title, URL: h.base(), Active: len(extra) == 0},
	}
	return append(crumbs, extra...)
}

// ColumnHead is a table header.
type ColumnHead struct {
	Label string
	Sort  string
}

// Row is one table row.
type Row struct {
	ID      int64
	URL     string
	Cells   []Cell
	Locked  bool
	Current map[string]string // current value per action
}

// Tab is a status filter tab.
type Tab struct {
	Value  string
	Label  string
	Count  int
	Active bool
	URL    string
}

// ActionForm is an action select rendered next to a record.
type ActionForm struct {
	Name    string
	Label   string
	Options []model.Option
}

// ListData holds data for the admin list template.
type ListData struct {
	Base       string
	Noun       string
	Query      resource.ListQuery
	Columns    []ColumnHead
	Rows       []Row
	Tabs       []Tab
	Stats      []Stat
	Filters    []model.Option
	Actions    []ActionForm
	Pagination AdminPagination
	Total      int
	Filtered   int
	Create     bool
	Edit       bool
	Empty      string
}

// List handles GET /admin/{resource}.
func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller()
	def := h.cfg.DefaultQuery
	def.PageSize = h.deps.PageSize
	q := resource.ParseListQuery(r.URL.Query(), def)

	page, err := ctrl.List(r.Context(), q)
	if h.sessionExpired(w, r, err) {
		return
	}
	var banner resource.Banner
	if err != nil {
		banner = resource.ErrorBanner(ctrl.Collection.Err())
	}

	opts := h.options(r.Context(), ctrl.Collection.Doer())
	columns := h.view.Columns(opts)

	data := ListData{
		Base:       h.base(),
		Noun:       h.cfg.Messages.Noun,
		Query:      page.Query,
		Total:      page.Total,
		Filtered:   page.Filtered,
		Create:     h.view.Create,
		Edit:       h.view.Edit,
		Pagination: BuildAdminPagination(page.Page, page.Filtered, page.PageSize, h.base(), page.Query),
		Actions:    h.actionForms(),
		Empty:      "No " + strings.ToLower(h.view.Title) + " found.",
	}
	if h.view.FilterField != "" {
		data.Filters = opts[h.view.FilterField]
	}
	if h.view.Summary != nil {
		data.Stats = h.view.Summary(ctrl.Collection.Items())
	}
	for _, c := range columns {
		data.Columns = append(data.Columns, ColumnHead{Label: c.Label, Sort: c.Sort})
	}
	data.Tabs = h.tabs(page)
	for _, rec := range page.Items {
		row := Row{
			ID:      rec.RecordID(),
			URL:     h.itemURL(rec.RecordID()),
			Locked:  ctrl.IsLocked(rec),
			Current: make(map[string]string),
		}
		for _, c := range columns {
			row.Cells = append(row.Cells, c.Cell(rec))
		}
		for _, a := range h.view.Actions {
			row.Current[a.Name] = a.Current(rec)
		}
		data.Rows = append(data.Rows, row)
	}

	h.deps.Renderer.RenderPage(w, r, "admin/list", render.TemplateData{
		Title:       h.view.Title,
		Nav:         h.view.Slug,
		User:        middleware.GetUser(r),
		Banner:      banner,
		Breadcrumbs: h.breadcrumbs(),
		Data:        data,
	})
}

func (h *ResourceHandler[T]) tabs(page resource.Page[T]) []Tab {
	if len(h.view.Tabs) == 0 {
		return nil
	}
	total := 0
	for _, n := range page.StatusCounts {
		total += n
	}
	tabs := []Tab{{
		Value:  resource.StatusAll,
		Label:  "All",
		Count:  total,
		Active: !page.Query.StatusActive(),
		URL:    page.Query.WithStatus(resource.StatusAll).URL(h.base()),
	}}
	for _, opt := range h.view.Tabs {
		tabs = append(tabs, Tab{
			Value:  opt.Value,
			Label:  opt.Label,
			Count:  page.StatusCounts[opt.Value],
			Active: page.Query.Status == opt.Value,
			URL:    page.Query.WithStatus(opt.Value).URL(h.base()),
		})
	}
	return tabs
}

func (h *ResourceHandler[T]) actionForms() []ActionForm {
	forms := make([]ActionForm, 0, len(h.view.Actions))
	for _, a := range h.view.Actions {
		forms = append(forms, ActionForm{Name: a.Name, Label: a.Label, Options: a.Options})
	}
	return forms
}

// FieldView is one rendered form input.
type FieldView struct {
	validation.Field
	Value    string
	Checked  bool
	Error    string
	Options  []model.Option
	Required bool
}

// FormData holds data for the admin form template.
type FormData struct {
	Base      string
	Action    string
	Noun      string
	IsEdit    bool
	Multipart bool
	Fields    []FieldView
	FormError string
	Images    []Cell // current images of the record being edited
}

func (h *ResourceHandler[T]) renderForm(w http.ResponseWriter, r *http.Request, status int, f *resource.Form, opts Options, banner resource.Banner, images []Cell) {
	data := FormData{
		Base:      h.base(),
		Action:    h.base(),
		Noun:      h.cfg.Messages.Noun,
		IsEdit:    f.Mode == validation.Update,
		Multipart: f.Schema.HasFile(),
		FormError: f.Error(validation.FormKey),
		Images:    images,
	}
	title := "New " + strings.ToLower(h.cfg.Messages.Noun)
	if data.IsEdit {
		data.Action = h.itemURL(f.ID)
		title = "Edit " + strings.ToLower(h.cfg.Messages.Noun)
	}
	data.Fields = fieldViews(f, opts)

	h.deps.Renderer.RenderPageStatus(w, r, status, "admin/form", render.TemplateData{
		Title:       title,
		Nav:         h.view.Slug,
		User:        middleware.GetUser(r),
		Banner:      banner,
		Breadcrumbs: h.breadcrumbs(render.Breadcrumb{Label: title, Active: true}),
		Data:        data,
	})
}

// fieldViews lays out the visible schema fields of f.
func fieldViews(f *resource.Form, opts Options) []FieldView {
	var views []FieldView
	for _, field := range f.Schema.Fields {
		if field.Hidden {
			continue
		}
		v := FieldView{
			Field:    field,
			Value:    f.Value(field.Name),
			Checked:  f.Checked(field.Name),
			Error:    f.Error(field.Name),
			Options:  opts[field.Name],
			Required: field.Requirement == validation.Required || (field.Requirement == validation.RequiredOnCreate && f.Mode == validation.Create),
		}
		if len(v.Options) == 0 && len(field.Enum) > 0 {
			for _, e := range field.Enum {
				v.Options = append(v.Options, model.Option{Value: e, Label: e})
			}
		}
		views = append(views, v)
	}
	return views
}

// New handles GET /admin/{resource}/new.
func (h *ResourceHandler[T]) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, h.controller().NewForm(), h.options(r.Context(), h.deps.session()), resource.Banner{}, nil)
}

// Create handles POST /admin/{resource}.
func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller()
	f := ctrl.NewForm()
	if err := f.Bind(r, h.deps.MaxUpload); err != nil {
		h.deps.logger().WarnContext(r.Context(), "binding form failed", "resource", h.view.Slug, "error", err)
		flashError(w, r, h.deps.Renderer, h.base()+RouteSuffixNew, msgInvalidForm)
		return
	}

	banner, err := ctrl.Create(r.Context(), f)
	h.afterSubmit(w, r, ctrl, f, banner, err, nil)
}

// Show handles GET /admin/{resource}/{id}.
func (h *ResourceHandler[T]) Show(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller()
	rec, ok := h.load(w, r, ctrl)
	if !ok {
		return
	}
	opts := h.options(r.Context(), ctrl.Collection.Doer())

	type detailRow struct {
		Label string
		Cell
	}
	var details []detailRow
	if h.view.Details != nil {
		for _, d := range h.view.Details(opts) {
			details = append(details, detailRow{Label: d.Label, Cell: d.Cell(rec)})
		}
	}
	current := make(map[string]string)
	for _, a := range h.view.Actions {
		current[a.Name] = a.Current(rec)
	}

	h.deps.Renderer.RenderPage(w, r, "admin/detail", render.TemplateData{
		Title:       h.cfg.Messages.Noun,
		Nav:         h.view.Slug,
		User:        middleware.GetUser(r),
		Breadcrumbs: h.breadcrumbs(render.Breadcrumb{Label: "#" + strconv.FormatInt(rec.RecordID(), 10), Active: true}),
		Data: map[string]any{
			"Base":    h.base(),
			"URL":     h.itemURL(rec.RecordID()),
			"ID":      rec.RecordID(),
			"Details": details,
			"Actions": h.actionForms(),
			"Current": current,
			"Edit":    h.view.Edit && !ctrl.IsLocked(rec),
			"Locked":  ctrl.IsLocked(rec),
		},
	})
}

// EditForm handles GET /admin/{resource}/{id}/edit.
func (h *ResourceHandler[T]) EditForm(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller()
	rec, ok := h.load(w, r, ctrl)
	if !ok {
		return
	}
	if ctrl.IsLocked(rec) {
		flashError(w, r, h.deps.Renderer, h.base(), h.lockedReason())
		return
	}
	opts := h.options(r.Context(), ctrl.Collection.Doer())
	h.renderForm(w, r, http.StatusOK, h.editForm(ctrl, rec, opts), opts, resource.Banner{}, h.images(rec))
}

// Update handles POST /admin/{resource}/{id}.
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller()
	rec, ok := h.load(w, r, ctrl)
	if !ok {
		return
	}
	f := h.editForm(ctrl, rec, nil)
	if err := f.Bind(r, h.deps.MaxUpload); err != nil {
		h.deps.logger().WarnContext(r.Context(), "binding form failed", "resource", h.view.Slug, "error", err)
		flashError(w, r, h.deps.Renderer, h.itemURL(rec.RecordID())+RouteSuffixEdit, msgInvalidForm)
		return
	}

	banner, err := ctrl.Update(r.Context(), rec, f)
	if errors.Is(err, resource.ErrLocked) {
		flashAndRedirect(w, r, h.deps.Renderer, h.base(), banner)
		return
	}
	h.afterSubmit(w, r, ctrl, f, banner, err, h.images(rec))
}

// afterSubmit redirects to the list on success and re-renders the draft
// otherwise.
func (h *ResourceHandler[T]) afterSubmit(w http.ResponseWriter, r *http.Request, ctrl *resource.Controller[T], f *resource.Form, banner resource.Banner, err error, images []Cell) {
	switch {
	case err == nil:
		flashAndRedirect(w, r, h.deps.Renderer, h.base(), banner)
	case h.sessionExpired(w, r, err):
	case errors.Is(err, resource.ErrInvalid):
		h.renderForm(w, r, http.StatusUnprocessableEntity, f, h.options(r.Context(), ctrl.Collection.Doer()), banner, images)
	default:
		h.renderForm(w, r, http.StatusOK, f, h.options(r.Context(), ctrl.Collection.Doer()), banner, images)
	}
}

// Delete handles POST /admin/{resource}/{id}/delete.
func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	ctrl := h.controller()
	rec, ok := h.load(w, r, ctrl)
	if !ok {
		return
	}
	banner, err := ctrl.Delete(r.Context(), rec)
	if h.sessionExpired(w, r, err) {
		return
	}
	flashAndRedirect(w, r, h.deps.Renderer, h.base(), banner)
}

// Action handles POST /admin/{resource}/{id}/actions/{action}.
func (h *ResourceHandler[T]) Action(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.deps.Renderer, h.base(), "Invalid "+strings.ToLower(h.cfg.Messages.Noun)+" ID")
		return
	}
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.deps.Renderer, h.base(), msgInvalidForm)
		return
	}

	banner, err := h.controller().Action(r.Context(), id, chi.URLParam(r, "action"), r.PostFormValue("value"))
	if h.sessionExpired(w, r, err) {
		return
	}
	flashAndRedirect(w, r, h.deps.Renderer, localRedirect(r.PostFormValue("next"), h.base()), banner)
}

// load fetches the record named by the id URL parameter. It answers the
// request itself when the record cannot be loaded.
func (h *ResourceHandler[T]) load(w http.ResponseWriter, r *http.Request, ctrl *resource.Controller[T]) (T, bool) {
	var zero T
	id, ok := parseIDParam(r)
	if !ok {
		flashError(w, r, h.deps.Renderer, h.base(), "Invalid "+strings.ToLower(h.cfg.Messages.Noun)+" ID")
		return zero, false
	}
	rec, err := ctrl.Load(r.Context(), id)
	if err == nil {
		return rec, true
	}
	if h.sessionExpired(w, r, err) {
		return zero, false
	}
	if apiclient.IsNotFound(err) {
		flashError(w, r, h.deps.Renderer, h.base(), h.cfg.Messages.Noun+" not found")
		return zero, false
	}
	slog.ErrorContext(r.Context(), "failed to load "+h.view.Slug, "error", err, "id", id)
	flashError(w, r, h.deps.Renderer, h.base(), apiclient.UserMessage(err, h.cfg.Messages.FetchFailure()))
	return zero, false
}

func (h *ResourceHandler[T]) editForm(ctrl *resource.Controller[T], rec T, opts Options) *resource.Form {
	f := ctrl.EditForm(rec)
	if h.view.Prefill != nil && opts != nil {
		h.view.Prefill(rec, f, opts)
	}
	return f
}

func (h *ResourceHandler[T]) images(rec T) []Cell {
	if h.view.Details == nil {
		return nil
	}
	var cells []Cell
	for _, d := range h.view.Details(Options{}) {
		if c := d.Cell(rec); c.Image != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

func (h *ResourceHandler[T]) lockedReason() string {
	if h.cfg.LockedReason != "" {
		return h.cfg.LockedReason
	}
	return "This record cannot be modified."
}

// sessionExpired sends the browser to the login page when the backend
// session could not be renewed.
func (h *ResourceHandler[T]) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	return redirectIfExpired(w, r, h.deps.Renderer, err)
}
