// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"sort"

	"github.com/olegiv/restro-web/internal/model"
)

// Shared expressions.
const (
	EmailPattern       = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	LooseEmailPattern  = `^\S+@\S+\.\S+$`
	MobilePattern      = `^\+?[1-9]\d{1,14}$`
	HTTPURLPattern     = `(?i)^https?://`
	ImageAccept        = "image/*"
	ResumeAccept       = ".pdf,.doc,.docx"
	DefaultMaxLogoSize = 2 << 20
)

func enumOf[S ~string](values []S) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var emailRule = Pattern{Expr: EmailPattern, Message: "Invalid email format"}

// Admin resource schemas.
var (
	MenuItemSchema = MustSchema("menu", "Menu item",
		Field{Name: "name", Label: "Name", Type: String, Requirement: Required},
		Field{Name: "description", Label: "Description", Type: Text},
		Field{Name: "category_name", Label: "Category", Type: String, Requirement: Required},
		Field{Name: "price", Label: "Price", Type: Number, Requirement: Required, Min: Bound(0)},
		Field{Name: "parcel_price", Label: "Parcel price", Type: Number, Min: Bound(0)},
		Field{Name: "is_veg", Label: "Vegetarian", Type: Boolean},
		Field{Name: "is_available", Label: "Available", Type: Boolean, Default: "true"},
		Field{Name: "image", Label: "Image", Type: File, Accept: ImageAccept, WriteOnly: true},
	)

	MenuCategorySchema = MustSchema("categories", "Menu category",
		Field{Name: "name", Label: "Name", Type: String, Requirement: Required},
	)

	BranchSchema = MustSchema("branches", "Branch",
		Field{Name: "name", Label: "Branch name", Type: String, Requirement: Required},
		Field{Name: "latitude", Label: "Latitude", Type: Number, Requirement: Required, Min: Bound(-90), Max: Bound(90)},
		Field{Name: "longitude", Label: "Longitude", Type: Number, Requirement: Required, Min: Bound(-180), Max: Bound(180)},
		Field{Name: "address", Label: "Address", Type: String, Requirement: Required},
		Field{Name: "city", Label: "City", Type: String, Requirement: Required},
		Field{Name: "state", Label: "State", Type: String},
		Field{Name: "country", Label: "Country", Type: String, Requirement: Required},
		Field{Name: "zipcode", Label: "Zip code", Type: String},
		Field{Name: "phone_number", Label: "Phone number", Type: String},
		Field{Name: "email", Label: "Email", Type: String,
			Patterns: []Pattern{{Expr: LooseEmailPattern, Message: "Invalid email format"}}},
		Field{Name: "opening_hours", Label: "Opening hours", Type: String},
		Field{Name: "manager_name", Label: "Manager name", Type: String},
		Field{Name: "branch_opening_date", Label: "Opening date", Type: Date},
		Field{Name: "branch_status", Label: "Status", Type: String, Enum: enumOf(model.BranchStatuses), Default: string(model.BranchOpen)},
		Field{Name: "seating_capacity", Label: "Seating capacity", Type: Integer, Min: Bound(0)},
		Field{Name: "parking_availability", Label: "Parking available", Type: Boolean},
		Field{Name: "wifi_availability", Label: "Wi-Fi available", Type: Boolean},
		Field{Name: "image", Label: "Image", Type: File, Accept: ImageAccept, WriteOnly: true},
	)

	GalleryCategorySchema = MustSchema("gallery-categories", "Gallery category",
		Field{Name: "name", Label: "Name", Type: String, Requirement: Required},
		Field{Name: "image", Label: "Cover image", Type: File, Accept: ImageAccept, WriteOnly: true},
	)

	GalleryImageSchema = MustSchema("images", "Gallery image",
		Field{Name: "name", Label: "Name", Type: String, Requirement: Required},
		Field{Name: "category_name", Label: "Category", Type: String, Requirement: Required,
			RequiredMessage: "Please select a valid category."},
		Field{Name: "description", Label: "Description", Type: Text},
		Field{Name: "file", Label: "Image", Type: File, Accept: ImageAccept, Requirement: RequiredOnCreate, WriteOnly: true},
	)

	TestimonialSchema = MustSchema("testimonials", "Testimonial",
		Field{Name: "name", Label: "Name", Type: String, Requirement: Required},
		Field{Name: "email", Label: "Email", Type: String, Requirement: Required, Patterns: []Pattern{emailRule}},
		Field{Name: "description", Label: "Message", Type: Text, Requirement: Required},
		Field{Name: "rating", Label: "Rating", Type: Integer, Requirement: Required,
			Min: Bound(model.MinRating), Max: Bound(model.MaxRating), Default: "5"},
		Field{Name: "image", Label: "Photo", Type: File, Accept: ImageAccept, WriteOnly: true},
	)

	JobPositionSchema = MustSchema("job-positions", "Job position",
		Field{Name: "title", Label: "Title", Type: String, Requirement: Required},
		Field{Name: "job_type", Label: "Job type", Type: String, Requirement: Required, Enum: model.JobTypes},
		Field{Name: "branch_name", Label: "Branch", Type: String, Requirement: Required},
		Field{Name: "location", Label: "Location", Type: String, Requirement: Required},
		Field{Name: "description", Label: "Description", Type: Text, Requirement: Required, Help: "Markdown is supported."},
		Field{Name: "status", Label: "Status", Type: String, Enum: enumOf(model.PositionStatuses), Default: string(model.PositionActive)},
	)

	JobApplicationStatusSchema = MustSchema("job-applications", "Job application status",
		Field{Name: "status", Label: "Status", Type: String, Requirement: Required, Enum: enumOf(model.ApplicationStatuses)},
	)

	FranchiseStatusSchema = MustSchema("franchise-requests", "Franchise request status",
		Field{Name: "request_status", Label: "Status", Type: String, Requirement: Required, Enum: enumOf(model.RequestStatuses)},
	)

	OrderLinkSchema = MustSchema("order-links", "Online order link",
		Field{Name: "platform", Label: "Platform", Type: String, Requirement: Required,
			RequiredMessage: "Platform name is required"},
		Field{Name: "url", Label: "URL", Type: String, Requirement: Required,
			Patterns: []Pattern{{Expr: HTTPURLPattern, Message: "URL must start with http:// or https://"}}},
		Field{Name: "branch_id", Label: "Branch", Type: Integer, Requirement: Required,
			RequiredMessage: "Branch selection is required"},
		Field{Name: "logo", Label: "Logo", Type: File, Accept: ImageAccept, Requirement: RequiredOnCreate,
			MaxBytes: DefaultMaxLogoSize, RequiredMessage: "Logo is required for new links", WriteOnly: true},
	)

	UserSchema = MustSchema("users", "User",
		Field{Name: "username", Label: "Username", Type: String, Requirement: Required, MinLength: 3},
		Field{Name: "email", Label: "Email", Type: String, Requirement: Required, Patterns: []Pattern{emailRule}},
		Field{Name: "mobile_number", Label: "Mobile number", Type: String, Requirement: Required,
			Patterns: []Pattern{{Expr: MobilePattern, Message: "Invalid mobile number format"}}},
		Field{Name: "role", Label: "Role", Type: String, Requirement: Required, Enum: enumOf(model.Roles), Default: string(model.RoleUser)},
		Field{Name: "password", Label: "Password", Type: String, Requirement: RequiredOnCreate, MinLength: 8, WriteOnly: true,
			MinLengthCreateOnly: true,
			Help:                "Leave blank to keep the current password.",
			Patterns: []Pattern{
				{Expr: `[A-Z]`, Message: "Password must contain at least one uppercase letter", CreateOnly: true},
				{Expr: `[a-z]`, Message: "Password must contain at least one lowercase letter", CreateOnly: true},
				{Expr: `[0-9]`, Message: "Password must contain at least one number", CreateOnly: true},
				{Expr: `[!@#$%^&*]`, Message: "Password must contain at least one special character", CreateOnly: true},
			}},
	)
)

// Public form schemas.
var (
	ContactSchema = MustSchema("contact", "Share your experience",
		TestimonialSchema.Fields...,
	)

	FranchiseSchema = MustSchema("franchise", "Franchise inquiry",
		Field{Name: "user_name", Label: "Full name", Type: String, Requirement: Required},
		Field{Name: "user_email", Label: "Email", Type: String, Requirement: Required, Patterns: []Pattern{emailRule}},
		Field{Name: "user_phone", Label: "Phone", Type: String, Requirement: Required},
		Field{Name: "requested_city", Label: "City", Type: String},
		Field{Name: "requested_state", Label: "State", Type: String},
		Field{Name: "requested_country", Label: "Country", Type: String},
		Field{Name: "investment_budget", Label: "Investment budget", Type: String, Requirement: Required},
		Field{Name: "experience_in_food_business", Label: "Experience in food business", Type: Text},
		Field{Name: "additional_details", Label: "Additional details", Type: Text},
	)

	JobApplySchema = MustSchema("job-apply", "Job application",
		Field{Name: "full_name", Label: "Full name", Type: String, Requirement: Required},
		Field{Name: "email", Label: "Email", Type: String, Requirement: Required, Patterns: []Pattern{emailRule}},
		Field{Name: "phone", Label: "Phone", Type: String, Requirement: Required},
		Field{Name: "address", Label: "Address", Type: Text},
		Field{Name: "experience", Label: "Experience", Type: Text},
		Field{Name: "skills", Label: "Skills", Type: Text},
		Field{Name: "cover_letter", Label: "Cover letter", Type: Text},
		Field{Name: "resume", Label: "Resume", Type: File, Accept: ResumeAccept, Requirement: Required},
	)

	LoginSchema = MustSchema("login", "Sign in",
		Field{Name: "email", Label: "Email", Type: String, Requirement: Required,
			Patterns: []Pattern{{Expr: EmailPattern, Message: "Please enter a valid email address."}}},
		Field{Name: "password", Label: "Password", Type: String, Requirement: Required, MinLength: 8},
	)
)

var registry = func() map[string]*Schema {
	m := make(map[string]*Schema)
	for _, s := range []*Schema{
		MenuItemSchema, MenuCategorySchema, BranchSchema, GalleryCategorySchema,
		GalleryImageSchema, TestimonialSchema, JobPositionSchema, JobApplicationStatusSchema,
		FranchiseStatusSchema, OrderLinkSchema, UserSchema,
		ContactSchema, FranchiseSchema, JobApplySchema, LoginSchema,
	} {
		m[s.Resource] = s
	}
	return m
}()

// Lookup returns the schema registered for resource.
func Lookup(resource string) (*Schema, bool) {
	s, ok := registry[resource]
	return s, ok
}

// Resources returns the registered schema names, sorted.
func Resources() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
