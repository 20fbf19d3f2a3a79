// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit form routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixAction is the suffix for status transition routes.
	RouteSuffixAction = "/actions/{action}"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteMenu is the public menu page.
	RouteMenu = "/menu"
	// RouteBranches is the public branch locator.
	RouteBranches = "/branches"
	// RouteBranchOrder lists the online order links of one branch.
	RouteBranchOrder = "/branches/{id}/order"
	// RouteGallery is the public gallery.
	RouteGallery = "/gallery"
	// RouteJobs is the public job listing.
	RouteJobs = "/jobs"
	// RouteJobApply is the job application form.
	RouteJobApply = "/jobs/{id}/apply"
	// RouteFranchise is the franchise inquiry form.
	RouteFranchise = "/franchise"
	// RouteContact is the contact form.
	RouteContact = "/contact"
	// RouteAbout is the about page.
	RouteAbout = "/about"

	// RouteSchemas serves the form schemas as JSON Schema documents.
	RouteSchemas = "/schemas/{resource}.json"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
)

const (
	redirectAdmin = "/admin"
	redirectLogin = RouteLogin
)

// Flash messages shared by several handlers.
const (
	msgInvalidForm    = "Invalid form data"
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgNotFound       = "The page you are looking for does not exist."
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
