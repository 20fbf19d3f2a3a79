// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the public site's read model: backend
// collections cached per key group and filtered for the public pages.
package service

import (
	"context"
	"html"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/cache"
	"github.com/olegiv/restro-web/internal/model"
)

// Cache key groups of the public catalogue.
const (
	GroupMenu         = "menu"
	GroupBranches     = "branches"
	GroupGallery      = "gallery"
	GroupJobs         = "jobs"
	GroupTestimonials = "testimonials"
	GroupOrderLinks   = "order-links"
)

// Backend list endpoints read by the public site.
const (
	PathMenu              = "/menu"
	PathBranches          = "/branches/"
	PathGalleryCategories = "/gallery_cat/categories"
	PathGalleryImages     = "/images/images/"
	PathJobPositions      = "/job-positions/"
	PathTestimonials      = "/testimonial/"
	PathOrderLinks        = "/api/online-order-links/"
)

const allKey = "all"

// Catalog serves cached backend collections to the public pages.
type Catalog struct {
	api     apiclient.Doer
	manager *cache.Manager
	text    *bluemonday.Policy

	menu          *cache.TypedCache[[]model.MenuItem]
	branches      *cache.TypedCache[[]model.Branch]
	galleryCats   *cache.TypedCache[[]model.GalleryCategory]
	galleryImages *cache.TypedCache[[]model.GalleryImage]
	positions     *cache.TypedCache[[]model.JobPosition]
	testimonials  *cache.TypedCache[[]model.Testimonial]
	orderLinks    *cache.TypedCache[[]model.OnlineOrderLink]
}

// NewCatalog creates a catalog reading through api and caching in
// manager's backend for ttl.
func NewCatalog(api apiclient.Doer, manager *cache.Manager, ttl time.Duration) *Catalog {
	backend := manager.Backend()
	c := &Catalog{
		api:           api,
		manager:       manager,
		text:          bluemonday.StrictPolicy(),
		menu:          cache.NewTypedCache[[]model.MenuItem](backend, GroupMenu, ttl),
		branches:      cache.NewTypedCache[[]model.Branch](backend, GroupBranches, ttl),
		galleryCats:   cache.NewTypedCache[[]model.GalleryCategory](backend, GroupGallery, ttl),
		galleryImages: cache.NewTypedCache[[]model.GalleryImage](backend, GroupGallery, ttl),
		positions:     cache.NewTypedCache[[]model.JobPosition](backend, GroupJobs, ttl),
		testimonials:  cache.NewTypedCache[[]model.Testimonial](backend, GroupTestimonials, ttl),
		orderLinks:    cache.NewTypedCache[[]model.OnlineOrderLink](backend, GroupOrderLinks, ttl),
	}
	for _, g := range []string{GroupMenu, GroupBranches, GroupGallery, GroupJobs, GroupTestimonials, GroupOrderLinks} {
		manager.Register(g)
	}
	return c
}

func fetch[T any](api apiclient.Doer, path string) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		var items []T
		if err := api.Do(ctx, apiclient.Get(path), &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
}

// Menu returns every menu item.
func (c *Catalog) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return c.menu.GetOrSet(ctx, allKey, fetch[model.MenuItem](c.api, PathMenu))
}

// MenuSections returns the available menu items grouped by category.
func (c *Catalog) MenuSections(ctx context.Context) ([]model.MenuSection, error) {
	items, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		if it.IsAvailable {
			available = append(available, it)
		}
	}
	return model.GroupMenu(available), nil
}

// Diet filters the specials strip.
type Diet string

// Diet filters
const (
	DietAll    Diet = ""
	DietVeg    Diet = "veg"
	DietNonVeg Diet = "non-veg"
)

// ParseDiet maps a query value onto a Diet; unknown values select all.
func ParseDiet(s string) Diet {
	switch Diet(strings.ToLower(s)) {
	case DietVeg:
		return DietVeg
	case DietNonVeg:
		return DietNonVeg
	}
	return DietAll
}

// Specials returns the items of the specials category matching diet.
func (c *Catalog) Specials(ctx context.Context, diet Diet) ([]model.MenuItem, error) {
	items, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return FilterSpecials(items, diet), nil
}

// FilterSpecials keeps the specials matching diet.
func FilterSpecials(items []model.MenuItem, diet Diet) []model.MenuItem {
	out := make([]model.MenuItem, 0)
	for _, it := range items {
		if it.CategoryName != model.SpecialsCategory {
			continue
		}
		if (diet == DietVeg && !it.IsVeg) || (diet == DietNonVeg && it.IsVeg) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Branches returns every branch.
func (c *Catalog) Branches(ctx context.Context) ([]model.Branch, error) {
	return c.branches.GetOrSet(ctx, allKey, fetch[model.Branch](c.api, PathBranches))
}

// Branch returns one branch.
func (c *Catalog) Branch(ctx context.Context, id int64) (model.Branch, bool, error) {
	branches, err := c.Branches(ctx)
	if err != nil {
		return model.Branch{}, false, err
	}
	for _, b := range branches {
		if b.ID == id {
			return b, true, nil
		}
	}
	return model.Branch{}, false, nil
}

// Cities returns the distinct branch cities, sorted.
func Cities(branches []model.Branch) []string {
	var cities []string
	for _, b := range branches {
		if city := strings.TrimSpace(b.City); city != "" && !slices.Contains(cities, city) {
			cities = append(cities, city)
		}
	}
	slices.Sort(cities)
	return cities
}

// InCity keeps the branches of city, case-insensitively. An empty city
// keeps all.
func InCity(branches []model.Branch, city string) []model.Branch {
	if city == "" {
		return branches
	}
	out := make([]model.Branch, 0)
	for _, b := range branches {
		if strings.EqualFold(strings.TrimSpace(b.City), city) {
			out = append(out, b)
		}
	}
	return out
}

// GalleryCategories returns the gallery categories.
func (c *Catalog) GalleryCategories(ctx context.Context) ([]model.GalleryCategory, error) {
	return c.galleryCats.GetOrSet(ctx, "categories", fetch[model.GalleryCategory](c.api, PathGalleryCategories))
}

// GalleryImages returns every gallery image.
func (c *Catalog) GalleryImages(ctx context.Context) ([]model.GalleryImage, error) {
	return c.galleryImages.GetOrSet(ctx, "images", fetch[model.GalleryImage](c.api, PathGalleryImages))
}

// Gallery is the public gallery page content.
type Gallery struct {
	Categories []model.GalleryCategory
	Active     model.GalleryCategory
	Images     []model.GalleryImage
}

// Gallery returns the images of categoryID, or of the first category when
// categoryID is zero or unknown.
func (c *Catalog) Gallery(ctx context.Context, categoryID int64) (Gallery, error) {
	var g Gallery
	eg, gctx := errgroup.WithContext(ctx)
	var images []model.GalleryImage
	eg.Go(func() error {
		var err error
		g.Categories, err = c.GalleryCategories(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		images, err = c.GalleryImages(gctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return Gallery{}, err
	}
	if len(g.Categories) == 0 {
		return g, nil
	}

	g.Active = g.Categories[0]
	for _, cat := range g.Categories {
		if cat.ID == categoryID {
			g.Active = cat
			break
		}
	}
	g.Images = model.ImagesInCategory(images, g.Active.ID)
	return g, nil
}

// JobPositions returns the positions whose title and job type contain the
// given terms, case-insensitively.
func (c *Catalog) JobPositions(ctx context.Context, title, jobType string) ([]model.JobPosition, error) {
	all, err := c.positions.GetOrSet(ctx, allKey, fetch[model.JobPosition](c.api, PathJobPositions))
	if err != nil {
		return nil, err
	}
	title, jobType = strings.ToLower(strings.TrimSpace(title)), strings.ToLower(strings.TrimSpace(jobType))
	out := make([]model.JobPosition, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), title) && strings.Contains(strings.ToLower(p.JobType), jobType) {
			out = append(out, p)
		}
	}
	return out, nil
}

// JobPosition returns one position.
func (c *Catalog) JobPosition(ctx context.Context, id int64) (model.JobPosition, bool, error) {
	all, err := c.JobPositions(ctx, "", "")
	if err != nil {
		return model.JobPosition{}, false, err
	}
	for _, p := range all {
		if p.ID == id {
			return p, true, nil
		}
	}
	return model.JobPosition{}, false, nil
}

// Testimonials returns the approved testimonials with markup stripped.
func (c *Catalog) Testimonials(ctx context.Context) ([]model.Testimonial, error) {
	all, err := c.testimonials.GetOrSet(ctx, allKey, fetch[model.Testimonial](c.api, PathTestimonials))
	if err != nil {
		return nil, err
	}
	approved := model.ApprovedTestimonials(all)
	for i := range approved {
		approved[i].Name = c.plainText(approved[i].Name)
		approved[i].Description = c.plainText(approved[i].Description)
	}
	return approved, nil
}

// plainText strips markup and returns unescaped text; templates escape it
// on output.
func (c *Catalog) plainText(s string) string {
	return html.UnescapeString(c.text.Sanitize(s))
}

// OrderLinks returns the online order links of a branch.
func (c *Catalog) OrderLinks(ctx context.Context, branchID int64) ([]model.OnlineOrderLink, error) {
	all, err := c.orderLinks.GetOrSet(ctx, allKey, fetch[model.OnlineOrderLink](c.api, PathOrderLinks))
	if err != nil {
		return nil, err
	}
	return model.LinksForBranch(all, branchID), nil
}

// Invalidate drops the cached data of groups.
func (c *Catalog) Invalidate(ctx context.Context, groups ...string) {
	for _, g := range groups {
		if err := c.manager.Invalidate(ctx, g); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "group", g, "error", err)
		}
	}
}

// Warm loads every public collection into the cache. All loads run; the
// first error is returned.
func (c *Catalog) Warm(ctx context.Context) error {
	var eg errgroup.Group
	eg.Go(func() error { _, err := c.Menu(ctx); return err })
	eg.Go(func() error { _, err := c.Branches(ctx); return err })
	eg.Go(func() error { _, err := c.GalleryCategories(ctx); return err })
	eg.Go(func() error { _, err := c.GalleryImages(ctx); return err })
	eg.Go(func() error { _, err := c.JobPositions(ctx, "", ""); return err })
	eg.Go(func() error { _, err := c.Testimonials(ctx); return err })
	eg.Go(func() error { _, err := c.OrderLinks(ctx, 0); return err })
	return eg.Wait()
}
