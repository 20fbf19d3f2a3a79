// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/imaging"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/resource"
	"github.com/olegiv/restro-web/internal/service"
	"github.com/olegiv/restro-web/internal/util"
	"github.com/olegiv/restro-web/internal/validation"
)

// Backend endpoints of the back-office resources.
const (
	pathMenu              = "/menu"
	pathMenuAdd           = "/menu/add"
	pathCategories        = "/categories"
	pathBranches          = "/branches/"
	pathGalleryCategories = "/gallery_cat/categories"
	pathGalleryImages     = "/images/images/"
	pathTestimonials      = "/testimonial/"
	pathJobPositions      = "/job-positions/"
	pathJobApplications   = "/job-applications/"
	pathFranchise         = "/franchise/requests/"
	pathOrderLinks        = "/api/online-order-links/"
	pathUsers             = "/users"
	pathUserRegister      = "/users/register"
)

// AdminResource is a back-office section mounted under /admin/{slug}.
type AdminResource interface {
	Slug() string
	NavItem() NavItem
	Routes(r chi.Router)
}

// NavItem is one sidebar entry of the back-office.
type NavItem struct {
	Slug  string
	Title string
	Icon  string
	URL   string
	Roles []model.Role
}

// Visible reports whether user may open the entry.
func (n NavItem) Visible(user *model.User) bool {
	if user == nil {
		return false
	}
	if len(n.Roles) == 0 {
		return user.Role.CanAccessBackOffice()
	}
	for _, r := range n.Roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// BuildResources returns the back-office sections in sidebar order. Writes
// drop the matching public catalogue cache groups.
func BuildResources(deps *Deps, catalog *service.Catalog, images *imaging.Processor) []AdminResource {
	var transform func(resource.Upload) (resource.Upload, error)
	if images != nil {
		transform = images.Transform
	}
	invalidate := func(groups ...string) func(context.Context) {
		return func(ctx context.Context) {
			if catalog != nil {
				catalog.Invalidate(ctx, groups...)
			}
		}
	}
	resolveCategory := func(ctx context.Context, f *resource.Form) error {
		if catalog == nil {
			return nil
		}
		return resolveGalleryCategory(ctx, catalog, f)
	}

	return []AdminResource{
		NewResourceHandler(deps, menuConfig(transform), menuView()).OnChange(invalidate(service.GroupMenu)),
		NewResourceHandler(deps, categoryConfig(), categoryView()).OnChange(invalidate(service.GroupMenu)),
		NewResourceHandler(deps, branchConfig(transform), branchView()).OnChange(invalidate(service.GroupBranches)),
		NewResourceHandler(deps, galleryCategoryConfig(transform), galleryCategoryView()).OnChange(invalidate(service.GroupGallery)),
		NewResourceHandler(deps, galleryImageConfig(transform, resolveCategory), galleryImageView()).OnChange(invalidate(service.GroupGallery)),
		NewResourceHandler(deps, testimonialConfig(transform), testimonialView()).OnChange(invalidate(service.GroupTestimonials)),
		NewResourceHandler(deps, jobPositionConfig(), jobPositionView()).OnChange(invalidate(service.GroupJobs)),
		NewResourceHandler(deps, jobApplicationConfig(), jobApplicationView()),
		NewResourceHandler(deps, franchiseConfig(), franchiseView()),
		NewResourceHandler(deps, orderLinkConfig(transform), orderLinkView()).OnChange(invalidate(service.GroupOrderLinks)),
		NewResourceHandler(deps, userConfig(), userView()),
	}
}

// statusOptions lists the values of a status enum with their labels.
func statusOptions[S interface {
	~string
	Label() string
}](values []S) []model.Option {
	opts := make([]model.Option, len(values))
	for i, v := range values {
		opts[i] = model.Option{Value: string(v), Label: v.Label()}
	}
	return opts
}

func statusValues[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func idPath(prefix string) func(int64) string {
	return func(id int64) string { return prefix + strconv.FormatInt(id, 10) }
}

func text(s string) Cell { return Cell{Text: s} }

func yesNo(b bool) Cell {
	if b {
		return Cell{Text: "Yes", Badge: "success"}
	}
	return Cell{Text: "No", Badge: "secondary"}
}

func timeCell(ts model.Timestamp) Cell { return Cell{Text: ts.String()} }

func timeOf(ts model.Timestamp) time.Time { return ts.Time }

// loadOptions fetches a backend list and maps it to select options.
func loadOptions[T any](ctx context.Context, api apiclient.Doer, path string, opt func(T) model.Option) ([]model.Option, error) {
	var items []T
	if err := api.Do(ctx, apiclient.Get(path), &items); err != nil {
		return nil, err
	}
	opts := make([]model.Option, 0, len(items))
	for _, it := range items {
		opts = append(opts, opt(it))
	}
	return opts, nil
}

func branchIDOptions(ctx context.Context, api apiclient.Doer) ([]model.Option, error) {
	return loadOptions(ctx, api, pathBranches, func(b model.Branch) model.Option {
		return model.Option{Value: strconv.FormatInt(b.ID, 10), Label: b.Name}
	})
}

// Menu items.

func menuConfig(transform func(resource.Upload) (resource.Upload, error)) resource.Config[model.MenuItem] {
	return resource.Config[model.MenuItem]{
		Endpoint: resource.Endpoint{
			ListPath:   pathMenu,
			FilterPath: func(category string) string { return pathMenu + "/category/" + url.PathEscape(category) },
			CreatePath: pathMenuAdd,
		},
		Form: validation.MenuItemSchema,
		List: resource.Schema[model.MenuItem]{
			Search: func(m model.MenuItem) []string { return []string{m.Name, m.Description, m.CategoryName} },
			Status: func(m model.MenuItem) string { return dietStatus(m.IsVeg) },
			Sorts: map[string]func(a, b model.MenuItem) int{
				"name":     resource.ByText(func(m model.MenuItem) string { return m.Name }),
				"category": resource.ByText(func(m model.MenuItem) string { return m.CategoryName }),
				"price":    resource.By(func(m model.MenuItem) float64 { return m.Price }),
				"updated":  resource.ByTime(func(m model.MenuItem) time.Time { return timeOf(m.UpdatedAt) }),
			},
		},
		Messages:     resource.Messages{Noun: "Menu item"},
		DefaultQuery: resource.ListQuery{Sort: "name", Dir: resource.Asc},
		Transform:    transform,
	}
}

func dietStatus(veg bool) string {
	if veg {
		return "veg"
	}
	return "non-veg"
}

func menuView() View[model.MenuItem] {
	return View[model.MenuItem]{
		Slug: "menu", Title: "Menu", Noun: "Menu item", Icon: "utensils",
		Create: true, Edit: true,
		Tabs: []model.Option{{Value: "veg", Label: "Veg"}, {Value: "non-veg", Label: "Non-Veg"}},
		Columns: func(Options) []Column[model.MenuItem] {
			return []Column[model.MenuItem]{
				{Label: "Image", Cell: func(m model.MenuItem) Cell { return Cell{Image: m.ImageURL} }},
				{Label: "Name", Sort: "name", Cell: func(m model.MenuItem) Cell { return text(m.Name) }},
				{Label: "Category", Sort: "category", Cell: func(m model.MenuItem) Cell { return text(m.CategoryName) }},
				{Label: "Price", Sort: "price", Cell: func(m model.MenuItem) Cell { return text(render.FormatPrice(m.Price)) }},
				{Label: "Diet", Cell: func(m model.MenuItem) Cell {
					if m.IsVeg {
						return Cell{Text: m.DietLabel(), Badge: "success"}
					}
					return Cell{Text: m.DietLabel(), Badge: "danger"}
				}},
				{Label: "Available", Cell: func(m model.MenuItem) Cell { return yesNo(m.IsAvailable) }},
			}
		},
		Details: func(Options) []Detail[model.MenuItem] {
			return []Detail[model.MenuItem]{
				{Label: "Image", Cell: func(m model.MenuItem) Cell { return Cell{Image: m.ImageURL} }},
				{Label: "Name", Cell: func(m model.MenuItem) Cell { return text(m.Name) }},
				{Label: "Description", Cell: func(m model.MenuItem) Cell { return text(m.Description) }},
				{Label: "Category", Cell: func(m model.MenuItem) Cell { return text(m.CategoryName) }},
				{Label: "Price", Cell: func(m model.MenuItem) Cell { return text(render.FormatPrice(m.Price)) }},
				{Label: "Parcel price", Cell: func(m model.MenuItem) Cell { return text(render.FormatPrice(m.ParcelPrice)) }},
				{Label: "Diet", Cell: func(m model.MenuItem) Cell { return text(m.DietLabel()) }},
				{Label: "Available", Cell: func(m model.MenuItem) Cell { return yesNo(m.IsAvailable) }},
				{Label: "Updated", Cell: func(m model.MenuItem) Cell { return timeCell(m.UpdatedAt) }},
			}
		},
		Options: func(ctx context.Context, api apiclient.Doer) (Options, error) {
			cats, err := loadOptions(ctx, api, pathCategories, func(c model.MenuCategory) model.Option {
				return model.Option{Value: c.Name, Label: c.Name}
			})
			if err != nil {
				return nil, err
			}
			return Options{"category_name": cats}, nil
		},
		FilterField: "category_name",
	}
}

// Menu categories.

func categoryConfig() resource.Config[model.MenuCategory] {
	return resource.Config[model.MenuCategory]{
		Endpoint: resource.Endpoint{ListPath: pathCategories},
		Form:     validation.MenuCategorySchema,
		List: resource.Schema[model.MenuCategory]{
			Search: func(c model.MenuCategory) []string { return []string{c.Name} },
			Sorts: map[string]func(a, b model.MenuCategory) int{
				"name": resource.ByText(func(c model.MenuCategory) string { return c.Name }),
			},
		},
		Messages:     resource.Messages{Noun: "Category"},
		DefaultQuery: resource.ListQuery{Sort: "name", Dir: resource.Asc},
	}
}

func categoryView() View[model.MenuCategory] {
	return View[model.MenuCategory]{
		Slug: "categories", Title: "Menu categories", Noun: "Category", Icon: "tags",
		Create: true, Edit: true,
		Columns: func(Options) []Column[model.MenuCategory] {
			return []Column[model.MenuCategory]{
				{Label: "ID", Cell: func(c model.MenuCategory) Cell { return text(strconv.FormatInt(c.ID, 10)) }},
				{Label: "Name", Sort: "name", Cell: func(c model.MenuCategory) Cell { return text(c.Name) }},
			}
		},
		Details: func(Options) []Detail[model.MenuCategory] {
			return []Detail[model.MenuCategory]{
				{Label: "Name", Cell: func(c model.MenuCategory) Cell { return text(c.Name) }},
			}
		},
	}
}

// Branches.

func branchConfig(transform func(resource.Upload) (resource.Upload, error)) resource.Config[model.Branch] {
	return resource.Config[model.Branch]{
		Endpoint: resource.Endpoint{ListPath: pathBranches},
		Form:     validation.BranchSchema,
		List: resource.Schema[model.Branch]{
			Search: func(b model.Branch) []string {
				return []string{b.Name, b.City, b.State, b.Address, b.ManagerName, b.PhoneNumber}
			},
			Status: func(b model.Branch) string { return string(b.BranchStatus) },
			Sorts: map[string]func(a, b model.Branch) int{
				"name":     resource.ByText(func(b model.Branch) string { return b.Name }),
				"city":     resource.ByText(func(b model.Branch) string { return b.City }),
				"opened":   resource.ByText(func(b model.Branch) string { return b.BranchOpeningDate }),
				"capacity": resource.By(func(b model.Branch) int { return b.SeatingCapacity }),
			},
		},
		Messages:     resource.Messages{Noun: "Branch"},
		DefaultQuery: resource.ListQuery{Sort: "name", Dir: resource.Asc},
		Transform:    transform,
	}
}

func branchStatusCell(b model.Branch) Cell {
	return Cell{Text: b.BranchStatus.Label(), Badge: b.BranchStatus.Badge()}
}

func branchView() View[model.Branch] {
	return View[model.Branch]{
		Slug: "branches", Title: "Branches", Noun: "Branch", Icon: "store",
		Create: true, Edit: true,
		Tabs: statusOptions(model.BranchStatuses),
		Summary: func(all []model.Branch) []Stat {
			s := model.CountBranches(all)
			return []Stat{
				{Label: "Total", Value: s.Total, Badge: "primary"},
				{Label: model.BranchOpen.Label(), Value: s.Open, Badge: model.BranchOpen.Badge()},
				{Label: model.BranchClosed.Label(), Value: s.Closed, Badge: model.BranchClosed.Badge()},
				{Label: model.BranchUnderMaintenance.Label(), Value: s.UnderMaintenance, Badge: model.BranchUnderMaintenance.Badge()},
			}
		},
		Columns: func(Options) []Column[model.Branch] {
			return []Column[model.Branch]{
				{Label: "Name", Sort: "name", Cell: func(b model.Branch) Cell { return text(b.Name) }},
				{Label: "City", Sort: "city", Cell: func(b model.Branch) Cell { return text(b.City) }},
				{Label: "Manager", Cell: func(b model.Branch) Cell { return text(b.ManagerName) }},
				{Label: "Phone", Cell: func(b model.Branch) Cell { return text(b.PhoneNumber) }},
				{Label: "Seats", Sort: "capacity", Cell: func(b model.Branch) Cell { return text(strconv.Itoa(b.SeatingCapacity)) }},
				{Label: "Status", Cell: branchStatusCell},
			}
		},
		Details: func(Options) []Detail[model.Branch] {
			return []Detail[model.Branch]{
				{Label: "Image", Cell: func(b model.Branch) Cell { return Cell{Image: b.ImageURL} }},
				{Label: "Name", Cell: func(b model.Branch) Cell { return text(b.Name) }},
				{Label: "Address", Cell: func(b model.Branch) Cell {
					return text(fmt.Sprintf("%s, %s, %s %s, %s", b.Address, b.City, b.State, b.Zipcode, b.Country))
				}},
				{Label: "Location", Cell: func(b model.Branch) Cell {
					if !b.HasLocation() {
						return text("")
					}
					return Cell{
						Text: fmt.Sprintf("%.5f, %.5f", b.Latitude, b.Longitude),
						Link: fmt.Sprintf("https://www.google.com/maps?q=%f,%f", b.Latitude, b.Longitude),
					}
				}},
				{Label: "Phone", Cell: func(b model.Branch) Cell { return text(b.PhoneNumber) }},
				{Label: "Email", Cell: func(b model.Branch) Cell { return text(b.Email) }},
				{Label: "Opening hours", Cell: func(b model.Branch) Cell { return text(b.OpeningHours) }},
				{Label: "Manager", Cell: func(b model.Branch) Cell { return text(b.ManagerName) }},
				{Label: "Opened", Cell: func(b model.Branch) Cell { return text(b.BranchOpeningDate) }},
				{Label: "Seating capacity", Cell: func(b model.Branch) Cell { return text(strconv.Itoa(b.SeatingCapacity)) }},
				{Label: "Parking", Cell: func(b model.Branch) Cell { return yesNo(b.ParkingAvailability) }},
				{Label: "Wi-Fi", Cell: func(b model.Branch) Cell { return yesNo(b.WifiAvailability) }},
				{Label: "Status", Cell: branchStatusCell},
			}
		},
		Options: func(context.Context, apiclient.Doer) (Options, error) {
			return Options{"branch_status": statusOptions(model.BranchStatuses)}, nil
		},
	}
}

// Gallery categories.

func galleryCategoryConfig(transform func(resource.Upload) (resource.Upload, error)) resource.Config[model.GalleryCategory] {
	return resource.Config[model.GalleryCategory]{
		Endpoint: resource.Endpoint{
			ListPath:   pathGalleryCategories,
			CreatePath: pathGalleryCategories + "/add",
			ItemPath:   idPath(pathGalleryCategories + "/"),
		},
		Form: validation.GalleryCategorySchema,
		List: resource.Schema[model.GalleryCategory]{
			Search: func(c model.GalleryCategory) []string { return []string{c.Name} },
			Sorts: map[string]func(a, b model.GalleryCategory) int{
				"name": resource.ByText(func(c model.GalleryCategory) string { return c.Name }),
			},
		},
		Messages:  resource.Messages{Noun: "Gallery category"},
		Transform: transform,
	}
}

func galleryCategoryView() View[model.GalleryCategory] {
	return View[model.GalleryCategory]{
		Slug: "gallery-categories", Title: "Gallery categories", Noun: "Gallery category", Icon: "folder",
		Create: true, Edit: true,
		Columns: func(Options) []Column[model.GalleryCategory] {
			return []Column[model.GalleryCategory]{
				{Label: "Cover", Cell: func(c model.GalleryCategory) Cell { return Cell{Image: c.ImageURL} }},
				{Label: "Name", Sort: "name", Cell: func(c model.GalleryCategory) Cell { return text(c.Name) }},
			}
		},
		Details: func(Options) []Detail[model.GalleryCategory] {
			return []Detail[model.GalleryCategory]{
				{Label: "Cover", Cell: func(c model.GalleryCategory) Cell { return Cell{Image: c.ImageURL} }},
				{Label: "Name", Cell: func(c model.GalleryCategory) Cell { return text(c.Name) }},
			}
		},
	}
}

// Gallery images.

// resolveGalleryCategory maps the selected category name to its id.
func resolveGalleryCategory(ctx context.Context, catalog *service.Catalog, f *resource.Form) error {
	cats, err := catalog.GalleryCategories(ctx)
	if err != nil {
		return err
	}
	cat, ok := model.CategoryByName(cats, f.Value("category_name"))
	if !ok {
		f.Errors.Add("category_name", "Please select a valid category.")
		return nil
	}
	f.Extra["category_id"] = cat.ID
	return nil
}

func galleryImageConfig(transform func(resource.Upload) (resource.Upload, error), prepare func(context.Context, *resource.Form) error) resource.Config[model.GalleryImage] {
	return resource.Config[model.GalleryImage]{
		Endpoint: resource.Endpoint{
			ListPath:    pathGalleryImages,
			CreatePath:  pathGalleryImages + "add",
			QueryFields: []string{"name", "category_id"},
			OmitFields:  []string{"category_name"},
		},
		Form: validation.GalleryImageSchema,
		List: resource.Schema[model.GalleryImage]{
			Search: func(i model.GalleryImage) []string { return []string{i.Name, i.Description} },
			Sorts: map[string]func(a, b model.GalleryImage) int{
				"name":     resource.ByText(func(i model.GalleryImage) string { return i.Name }),
				"category": resource.By(func(i model.GalleryImage) int64 { return i.CategoryID }),
			},
		},
		Messages:  resource.Messages{Noun: "Image"},
		Prepare:   prepare,
		Transform: transform,
	}
}

func galleryImageView() View[model.GalleryImage] {
	category := func(opts Options) func(model.GalleryImage) Cell {
		return func(i model.GalleryImage) Cell {
			return text(opts.Label("category_id", strconv.FormatInt(i.CategoryID, 10)))
		}
	}
	return View[model.GalleryImage]{
		Slug: "images", Title: "Gallery images", Noun: "Image", Icon: "image",
		Create: true, Edit: true,
		Columns: func(opts Options) []Column[model.GalleryImage] {
			return []Column[model.GalleryImage]{
				{Label: "Image", Cell: func(i model.GalleryImage) Cell { return Cell{Image: i.FilePath} }},
				{Label: "Name", Sort: "name", Cell: func(i model.GalleryImage) Cell { return text(i.Name) }},
				{Label: "Category", Sort: "category", Cell: category(opts)},
			}
		},
		Details: func(opts Options) []Detail[model.GalleryImage] {
			return []Detail[model.GalleryImage]{
				{Label: "Image", Cell: func(i model.GalleryImage) Cell { return Cell{Image: i.FilePath} }},
				{Label: "Name", Cell: func(i model.GalleryImage) Cell { return text(i.Name) }},
				{Label: "Description", Cell: func(i model.GalleryImage) Cell { return text(i.Description) }},
				{Label: "Category", Cell: category(opts)},
			}
		},
		Options: func(ctx context.Context, api apiclient.Doer) (Options, error) {
			var cats []model.GalleryCategory
			if err := api.Do(ctx, apiclient.Get(pathGalleryCategories), &cats); err != nil {
				return nil, err
			}
			opts := Options{}
			for _, c := range cats {
				opts["category_name"] = append(opts["category_name"], model.Option{Value: c.Name, Label: c.Name})
				opts["category_id"] = append(opts["category_id"], model.Option{Value: strconv.FormatInt(c.ID, 10), Label: c.Name})
			}
			return opts, nil
		},
		Prefill: func(i model.GalleryImage, f *resource.Form, opts Options) {
			f.Values["category_name"] = opts.Label("category_id", strconv.FormatInt(i.CategoryID, 10))
		},
	}
}

// Testimonials.

func testimonialConfig(transform func(resource.Upload) (resource.Upload, error)) resource.Config[model.Testimonial] {
	return resource.Config[model.Testimonial]{
		Endpoint: resource.Endpoint{
			ListPath: pathTestimonials,
			Actions: map[string]resource.Action{
				"status": {
					Method:     http.MethodPatch,
					Path:       func(id int64, _ string) string { return pathTestimonials + strconv.FormatInt(id, 10) + "/status" },
					QueryParam: "status",
					Allowed:    statusValues(model.RequestStatuses),
					Success:    func(v string) string { return "Testimonial " + model.RequestStatus(v).Label() + " successfully!" },
					Failure:    "Failed to update testimonial status. Please try again.",
				},
			},
		},
		Form: validation.TestimonialSchema,
		List: resource.Schema[model.Testimonial]{
			Search: func(t model.Testimonial) []string { return []string{t.Name, t.Email, t.Description} },
			Status: func(t model.Testimonial) string { return string(t.Status) },
			Sorts: map[string]func(a, b model.Testimonial) int{
				"name":    resource.ByText(func(t model.Testimonial) string { return t.Name }),
				"rating":  resource.By(func(t model.Testimonial) int { return t.Rating }),
				"created": resource.ByTime(func(t model.Testimonial) time.Time { return timeOf(t.CreatedAt) }),
			},
		},
		Messages:     resource.Messages{Noun: "Testimonial"},
		DefaultQuery: resource.ListQuery{Sort: "created", Dir: resource.Desc},
		Transform:    transform,
	}
}

func testimonialStatusCell(t model.Testimonial) Cell {
	return Cell{Text: t.Status.Label(), Badge: t.Status.Badge()}
}

func testimonialView() View[model.Testimonial] {
	return View[model.Testimonial]{
		Slug: "testimonials", Title: "Testimonials", Noun: "Testimonial", Icon: "comment",
		Create: true,
		Tabs:   statusOptions(model.RequestStatuses),
		Actions: []ActionView[model.Testimonial]{{
			Name: "status", Label: "Status", Options: statusOptions(model.RequestStatuses),
			Current: func(t model.Testimonial) string { return string(t.Status) },
		}},
		Columns: func(Options) []Column[model.Testimonial] {
			return []Column[model.Testimonial]{
				{Label: "Name", Sort: "name", Cell: func(t model.Testimonial) Cell { return text(t.Name) }},
				{Label: "Email", Cell: func(t model.Testimonial) Cell { return text(t.Email) }},
				{Label: "Rating", Sort: "rating", Cell: func(t model.Testimonial) Cell { return text(strconv.Itoa(t.Stars()) + "/5") }},
				{Label: "Status", Cell: testimonialStatusCell},
				{Label: "Submitted", Sort: "created", Cell: func(t model.Testimonial) Cell { return timeCell(t.CreatedAt) }},
			}
		},
		Details: func(Options) []Detail[model.Testimonial] {
			return []Detail[model.Testimonial]{
				{Label: "Photo", Cell: func(t model.Testimonial) Cell { return Cell{Image: t.Image} }},
				{Label: "Name", Cell: func(t model.Testimonial) Cell { return text(t.Name) }},
				{Label: "Email", Cell: func(t model.Testimonial) Cell { return Cell{Text: t.Email, Link: "mailto:" + t.Email} }},
				{Label: "Rating", Cell: func(t model.Testimonial) Cell { return text(strconv.Itoa(t.Stars()) + "/5") }},
				{Label: "Message", Cell: func(t model.Testimonial) Cell { return text(t.Description) }},
				{Label: "Status", Cell: testimonialStatusCell},
				{Label: "Submitted", Cell: func(t model.Testimonial) Cell { return timeCell(t.CreatedAt) }},
			}
		},
	}
}

// Job positions.

func jobPositionConfig() resource.Config[model.JobPosition] {
	return resource.Config[model.JobPosition]{
		Endpoint: resource.Endpoint{ListPath: pathJobPositions},
		Form:     validation.JobPositionSchema,
		List: resource.Schema[model.JobPosition]{
			Search: func(p model.JobPosition) []string { return []string{p.Title, p.JobType, p.BranchName, p.Location} },
			Status: func(p model.JobPosition) string { return string(p.Status) },
			Sorts: map[string]func(a, b model.JobPosition) int{
				"title":   resource.ByText(func(p model.JobPosition) string { return p.Title }),
				"branch":  resource.ByText(func(p model.JobPosition) string { return p.BranchName }),
				"created": resource.ByTime(func(p model.JobPosition) time.Time { return timeOf(p.CreatedAt) }),
			},
		},
		Messages:     resource.Messages{Noun: "Job position"},
		DefaultQuery: resource.ListQuery{Sort: "created", Dir: resource.Desc},
	}
}

func positionStatusCell(p model.JobPosition) Cell {
	return Cell{Text: p.Status.Label(), Badge: p.Status.Badge()}
}

func jobPositionView() View[model.JobPosition] {
	return View[model.JobPosition]{
		Slug: "job-positions", Title: "Job positions", Noun: "Job position", Icon: "briefcase",
		Create: true, Edit: true,
		Tabs: statusOptions(model.PositionStatuses),
		Columns: func(Options) []Column[model.JobPosition] {
			return []Column[model.JobPosition]{
				{Label: "Title", Sort: "title", Cell: func(p model.JobPosition) Cell { return text(p.Title) }},
				{Label: "Type", Cell: func(p model.JobPosition) Cell { return text(p.JobType) }},
				{Label: "Branch", Sort: "branch", Cell: func(p model.JobPosition) Cell { return text(p.BranchName) }},
				{Label: "Location", Cell: func(p model.JobPosition) Cell { return text(p.Location) }},
				{Label: "Status", Cell: positionStatusCell},
				{Label: "Posted", Sort: "created", Cell: func(p model.JobPosition) Cell { return timeCell(p.CreatedAt) }},
			}
		},
		Details: func(Options) []Detail[model.JobPosition] {
			return []Detail[model.JobPosition]{
				{Label: "Title", Cell: func(p model.JobPosition) Cell { return text(p.Title) }},
				{Label: "Type", Cell: func(p model.JobPosition) Cell { return text(p.JobType) }},
				{Label: "Branch", Cell: func(p model.JobPosition) Cell { return text(p.BranchName) }},
				{Label: "Location", Cell: func(p model.JobPosition) Cell { return text(p.Location) }},
				{Label: "Description", Cell: func(p model.JobPosition) Cell { return Cell{Text: p.Description, Markdown: true} }},
				{Label: "Status", Cell: positionStatusCell},
				{Label: "Posted", Cell: func(p model.JobPosition) Cell { return timeCell(p.CreatedAt) }},
			}
		},
		Options: func(ctx context.Context, api apiclient.Doer) (Options, error) {
			branches, err := loadOptions(ctx, api, pathBranches, func(b model.Branch) model.Option {
				return model.Option{Value: b.Name, Label: b.Name}
			})
			if err != nil {
				return nil, err
			}
			return Options{"branch_name": branches, "status": statusOptions(model.PositionStatuses)}, nil
		},
	}
}

// Job applications.

func jobApplicationConfig() resource.Config[model.JobApplication] {
	return resource.Config[model.JobApplication]{
		Endpoint: resource.Endpoint{
			ListPath: pathJobApplications,
			Actions: map[string]resource.Action{
				"status": {
					Method:    http.MethodPut,
					Path:      func(id int64, _ string) string { return pathJobApplications + strconv.FormatInt(id, 10) + "/status" },
					JSONField: "status",
					Allowed:   statusValues(model.ApplicationStatuses),
					Success:   func(v string) string { return "Application status updated to " + v },
					Failure:   "Failed to update application status. Please try again.",
				},
			},
		},
		Form: validation.JobApplicationStatusSchema,
		List: resource.Schema[model.JobApplication]{
			Search: func(a model.JobApplication) []string {
				return []string{a.FullName, a.Email, a.Phone, a.JobPositionTitle, a.Skills}
			},
			Status: func(a model.JobApplication) string { return string(a.Status) },
			Sorts: map[string]func(a, b model.JobApplication) int{
				"name":     resource.ByText(func(a model.JobApplication) string { return a.FullName }),
				"position": resource.ByText(func(a model.JobApplication) string { return a.JobPositionTitle }),
				"created":  resource.ByTime(func(a model.JobApplication) time.Time { return timeOf(a.CreatedAt) }),
			},
		},
		Messages:     resource.Messages{Noun: "Application"},
		DefaultQuery: resource.ListQuery{Sort: "created", Dir: resource.Desc},
	}
}

func applicationStatusCell(a model.JobApplication) Cell {
	return Cell{Text: a.Status.Label(), Badge: a.Status.Badge()}
}

func jobApplicationView() View[model.JobApplication] {
	return View[model.JobApplication]{
		Slug: "job-applications", Title: "Job applications", Noun: "Application", Icon: "file",
		Tabs: statusOptions(model.ApplicationStatuses),
		Actions: []ActionView[model.JobApplication]{{
			Name: "status", Label: "Status", Options: statusOptions(model.ApplicationStatuses),
			Current: func(a model.JobApplication) string { return string(a.Status) },
		}},
		Columns: func(Options) []Column[model.JobApplication] {
			return []Column[model.JobApplication]{
				{Label: "Applicant", Sort: "name", Cell: func(a model.JobApplication) Cell { return text(a.FullName) }},
				{Label: "Position", Sort: "position", Cell: func(a model.JobApplication) Cell { return text(a.JobPositionTitle) }},
				{Label: "Email", Cell: func(a model.JobApplication) Cell { return text(a.Email) }},
				{Label: "Phone", Cell: func(a model.JobApplication) Cell { return text(a.Phone) }},
				{Label: "Status", Cell: applicationStatusCell},
				{Label: "Applied", Sort: "created", Cell: func(a model.JobApplication) Cell { return timeCell(a.CreatedAt) }},
			}
		},
		Details: func(Options) []Detail[model.JobApplication] {
			return []Detail[model.JobApplication]{
				{Label: "Applicant", Cell: func(a model.JobApplication) Cell { return text(a.FullName) }},
				{Label: "Position", Cell: func(a model.JobApplication) Cell { return text(a.JobPositionTitle) }},
				{Label: "Email", Cell: func(a model.JobApplication) Cell { return Cell{Text: a.Email, Link: "mailto:" + a.Email} }},
				{Label: "Phone", Cell: func(a model.JobApplication) Cell { return text(a.Phone) }},
				{Label: "Address", Cell: func(a model.JobApplication) Cell { return text(a.Address) }},
				{Label: "Experience", Cell: func(a model.JobApplication) Cell { return text(a.Experience) }},
				{Label: "Skills", Cell: func(a model.JobApplication) Cell { return text(a.Skills) }},
				{Label: "Cover letter", Cell: func(a model.JobApplication) Cell { return text(a.CoverLetter) }},
				{Label: "Resume", Cell: func(a model.JobApplication) Cell {
					if a.ResumeURL == "" {
						return text("")
					}
					return Cell{Text: "Download resume", Link: a.ResumeURL}
				}},
				{Label: "Status", Cell: applicationStatusCell},
				{Label: "Applied", Cell: func(a model.JobApplication) Cell { return timeCell(a.CreatedAt) }},
			}
		},
	}
}

// Franchise requests.

func franchiseConfig() resource.Config[model.FranchiseRequest] {
	return resource.Config[model.FranchiseRequest]{
		Endpoint: resource.Endpoint{
			ListPath: pathFranchise,
			Actions: map[string]resource.Action{
				"status": {
					Method: http.MethodPut,
					Path: func(id int64, value string) string {
						return pathFranchise + strconv.FormatInt(id, 10) + "/status/" + url.PathEscape(value)
					},
					Allowed: statusValues(model.RequestStatuses),
					Success: func(v string) string { return "Request status updated to " + v + " successfully" },
					Failure: "Failed to update request status. Please try again.",
				},
			},
		},
		Form: validation.FranchiseStatusSchema,
		List: resource.Schema[model.FranchiseRequest]{
			Search: func(f model.FranchiseRequest) []string {
				return []string{f.UserName, f.UserEmail, f.UserPhone, f.RequestedCity, f.RequestedState, f.RequestedCountry}
			},
			Status: func(f model.FranchiseRequest) string { return string(f.RequestStatus) },
			Sorts: map[string]func(a, b model.FranchiseRequest) int{
				"name":    resource.ByText(func(f model.FranchiseRequest) string { return f.UserName }),
				"city":    resource.ByText(func(f model.FranchiseRequest) string { return f.RequestedCity }),
				"created": resource.ByTime(func(f model.FranchiseRequest) time.Time { return timeOf(f.CreatedAt) }),
			},
		},
		Messages:     resource.Messages{Noun: "Franchise request"},
		DefaultQuery: resource.ListQuery{Sort: "created", Dir: resource.Desc},
	}
}

func franchiseStatusCell(f model.FranchiseRequest) Cell {
	return Cell{Text: f.RequestStatus.Label(), Badge: f.RequestStatus.Badge()}
}

func franchiseView() View[model.FranchiseRequest] {
	return View[model.FranchiseRequest]{
		Slug: "franchise-requests", Title: "Franchise requests", Noun: "Franchise request", Icon: "handshake",
		Tabs: statusOptions(model.RequestStatuses),
		Actions: []ActionView[model.FranchiseRequest]{{
			Name: "status", Label: "Status", Options: statusOptions(model.RequestStatuses),
			Current: func(f model.FranchiseRequest) string { return string(f.RequestStatus) },
		}},
		Columns: func(Options) []Column[model.FranchiseRequest] {
			return []Column[model.FranchiseRequest]{
				{Label: "Name", Sort: "name", Cell: func(f model.FranchiseRequest) Cell { return text(f.UserName) }},
				{Label: "Email", Cell: func(f model.FranchiseRequest) Cell { return text(f.UserEmail) }},
				{Label: "City", Sort: "city", Cell: func(f model.FranchiseRequest) Cell { return text(f.RequestedCity) }},
				{Label: "Budget", Cell: func(f model.FranchiseRequest) Cell { return text(f.InvestmentBudget) }},
				{Label: "Status", Cell: franchiseStatusCell},
				{Label: "Received", Sort: "created", Cell: func(f model.FranchiseRequest) Cell { return timeCell(f.CreatedAt) }},
			}
		},
		Details: func(Options) []Detail[model.FranchiseRequest] {
			return []Detail[model.FranchiseRequest]{
				{Label: "Name", Cell: func(f model.FranchiseRequest) Cell { return text(f.UserName) }},
				{Label: "Email", Cell: func(f model.FranchiseRequest) Cell { return Cell{Text: f.UserEmail, Link: "mailto:" + f.UserEmail} }},
				{Label: "Phone", Cell: func(f model.FranchiseRequest) Cell { return text(f.UserPhone) }},
				{Label: "Location", Cell: func(f model.FranchiseRequest) Cell {
					return text(fmt.Sprintf("%s, %s, %s", f.RequestedCity, f.RequestedState, f.RequestedCountry))
				}},
				{Label: "Investment budget", Cell: func(f model.FranchiseRequest) Cell { return text(f.InvestmentBudget) }},
				{Label: "Food business experience", Cell: func(f model.FranchiseRequest) Cell { return text(f.ExperienceInFoodBusiness) }},
				{Label: "Additional details", Cell: func(f model.FranchiseRequest) Cell { return text(f.AdditionalDetails) }},
				{Label: "Status", Cell: franchiseStatusCell},
				{Label: "Received", Cell: func(f model.FranchiseRequest) Cell { return timeCell(f.CreatedAt) }},
				{Label: "Updated", Cell: func(f model.FranchiseRequest) Cell { return timeCell(f.UpdatedAt) }},
			}
		},
	}
}

// Online order links.

// checkOrderURL rejects links pointing at private or loopback hosts.
func checkOrderURL(_ context.Context, f *resource.Form) error {
	if err := util.CheckPublicURL(f.Value("url")); err != nil {
		f.Errors.Add("url", err.Error())
	}
	return nil
}

func orderLinkConfig(transform func(resource.Upload) (resource.Upload, error)) resource.Config[model.OnlineOrderLink] {
	return resource.Config[model.OnlineOrderLink]{
		Endpoint: resource.Endpoint{ListPath: pathOrderLinks},
		Form:     validation.OrderLinkSchema,
		List: resource.Schema[model.OnlineOrderLink]{
			Search: func(l model.OnlineOrderLink) []string { return []string{l.Platform, l.URL} },
			Sorts: map[string]func(a, b model.OnlineOrderLink) int{
				"platform": resource.ByText(func(l model.OnlineOrderLink) string { return l.Platform }),
				"branch":   resource.By(func(l model.OnlineOrderLink) int64 { return l.BranchID }),
			},
		},
		Messages: resource.Messages{
			Noun:         "Online order link",
			CreateFailed: "Failed to add link. Please try again.",
		},
		DefaultQuery: resource.ListQuery{Sort: "platform", Dir: resource.Asc},
		Prepare:      checkOrderURL,
		Transform:    transform,
	}
}

func orderLinkView() View[model.OnlineOrderLink] {
	branch := func(opts Options) func(model.OnlineOrderLink) Cell {
		return func(l model.OnlineOrderLink) Cell {
			return text(opts.Label("branch_id", strconv.FormatInt(l.BranchID, 10)))
		}
	}
	return View[model.OnlineOrderLink]{
		Slug: "order-links", Title: "Online order links", Noun: "Online order link", Icon: "link",
		Create: true, Edit: true,
		Columns: func(opts Options) []Column[model.OnlineOrderLink] {
			return []Column[model.OnlineOrderLink]{
				{Label: "Logo", Cell: func(l model.OnlineOrderLink) Cell { return Cell{Image: l.Logo} }},
				{Label: "Platform", Sort: "platform", Cell: func(l model.OnlineOrderLink) Cell { return text(l.Platform) }},
				{Label: "Branch", Sort: "branch", Cell: branch(opts)},
				{Label: "URL", Cell: func(l model.OnlineOrderLink) Cell { return Cell{Text: l.URL, Link: l.URL} }},
			}
		},
		Details: func(opts Options) []Detail[model.OnlineOrderLink] {
			return []Detail[model.OnlineOrderLink]{
				{Label: "Logo", Cell: func(l model.OnlineOrderLink) Cell { return Cell{Image: l.Logo} }},
				{Label: "Platform", Cell: func(l model.OnlineOrderLink) Cell { return text(l.Platform) }},
				{Label: "Branch", Cell: branch(opts)},
				{Label: "URL", Cell: func(l model.OnlineOrderLink) Cell { return Cell{Text: l.URL, Link: l.URL} }},
			}
		},
		Options: func(ctx context.Context, api apiclient.Doer) (Options, error) {
			branches, err := branchIDOptions(ctx, api)
			if err != nil {
				return nil, err
			}
			return Options{"branch_id": branches}, nil
		},
	}
}

// Users.

func userConfig() resource.Config[model.User] {
	return resource.Config[model.User]{
		Endpoint: resource.Endpoint{ListPath: pathUsers, CreatePath: pathUserRegister},
		Form:     validation.UserSchema,
		List: resource.Schema[model.User]{
			Search: func(u model.User) []string { return []string{u.Username, u.Email, u.MobileNumber} },
			Status: func(u model.User) string { return string(u.Role) },
			Sorts: map[string]func(a, b model.User) int{
				"username": resource.ByText(func(u model.User) string { return u.Username }),
				"email":    resource.ByText(func(u model.User) string { return u.Email }),
				"role":     resource.ByText(func(u model.User) string { return string(u.Role) }),
			},
		},
		Messages: resource.Messages{
			Noun:            "User",
			CreateForbidden: "You don't have permission to create users.",
			UpdateForbidden: "You don't have permission to update this user.",
			DeleteForbidden: "You don't have permission to delete this user.",
		},
		DefaultQuery: resource.ListQuery{Sort: "username", Dir: resource.Asc},
		Locked:       model.User.IsProtected,
		LockedReason: "Super admin accounts cannot be modified.",
	}
}

func roleCell(u model.User) Cell {
	return Cell{Text: u.Role.Label(), Badge: u.Role.Badge()}
}

func userView() View[model.User] {
	return View[model.User]{
		Slug: "users", Title: "Users", Noun: "User", Icon: "users",
		Roles:  []model.Role{model.RoleAdmin, model.RoleSuperAdmin},
		Create: true, Edit: true,
		Tabs: statusOptions(model.Roles),
		Columns: func(Options) []Column[model.User] {
			return []Column[model.User]{
				{Label: "Username", Sort: "username", Cell: func(u model.User) Cell { return text(u.Username) }},
				{Label: "Email", Sort: "email", Cell: func(u model.User) Cell { return text(u.Email) }},
				{Label: "Mobile", Cell: func(u model.User) Cell { return text(u.MobileNumber) }},
				{Label: "Role", Sort: "role", Cell: roleCell},
			}
		},
		Details: func(Options) []Detail[model.User] {
			return []Detail[model.User]{
				{Label: "Username", Cell: func(u model.User) Cell { return text(u.Username) }},
				{Label: "Email", Cell: func(u model.User) Cell { return text(u.Email) }},
				{Label: "Mobile", Cell: func(u model.User) Cell { return text(u.MobileNumber) }},
				{Label: "Role", Cell: roleCell},
			}
		},
		Options: func(context.Context, apiclient.Doer) (Options, error) {
			return Options{"role": statusOptions(model.Roles)}, nil
		},
	}
}
