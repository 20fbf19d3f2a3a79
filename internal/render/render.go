// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages with
// the shared layout data.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/resource"
)

// FlashStore keeps a banner between a redirect and the next rendered page.
type FlashStore interface {
	Flash(ctx context.Context, b resource.Banner)
	PopFlash(ctx context.Context) resource.Banner
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	flashes   FlashStore
	isDev     bool
	siteName  string
	mediaBase string
	now       func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Flashes     FlashStore
	IsDev       bool
	SiteName    string
	// MediaBaseURL prefixes relative image paths returned by the backend.
	MediaBaseURL string
}

// layouts maps a template directory to the layout its pages are wrapped in.
var layouts = map[string]string{
	"admin":  "layouts/admin.html",
	"auth":   "layouts/public.html",
	"public": "layouts/public.html",
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		flashes:   cfg.Flashes,
		isDev:     cfg.IsDev,
		siteName:  cfg.SiteName,
		mediaBase: strings.TrimRight(cfg.MediaBaseURL, "/"),
		now:       time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates parses every page together with the base layout, its
// section layout and all partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	const baseLayout = "layouts/base.html"
	funcs := r.TemplateFuncs()

	for dir, layout := range layouts {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := []string{baseLayout, layout}
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(funcs).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// has no templates.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Breadcrumb is one step of the admin breadcrumb trail.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	// Nav is the active navigation entry.
	Nav         string
	User        *model.User
	Banner      resource.Banner
	Breadcrumbs []Breadcrumb
	Data        any

	SiteName    string
	Path        string
	CurrentYear int
	IsDev       bool
}

// Render renders a page with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a page with the given status code. The pending flash
// banner is consumed unless data already carries one.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.SiteName = r.siteName
	data.Path = req.URL.Path
	data.CurrentYear = r.now().Year()
	data.IsDev = r.isDev
	if r.flashes != nil {
		if flash := r.flashes.PopFlash(req.Context()); data.Banner.IsZero() {
			data.Banner = flash
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// RenderPage renders a page and answers 500 if rendering fails.
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, name string, data TemplateData) {
	r.RenderPageStatus(w, req, http.StatusOK, name, data)
}

// RenderPageStatus is RenderPage with an explicit status code.
func (r *Renderer) RenderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) {
	if err := r.RenderStatus(w, req, status, name, data); err != nil {
		slog.ErrorContext(req.Context(), "render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Flash stores a banner for the next rendered page.
func (r *Renderer) Flash(req *http.Request, b resource.Banner) {
	if r.flashes != nil {
		r.flashes.Flash(req.Context(), b)
	}
}
