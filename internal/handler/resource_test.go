// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/resource"
)

const categoriesJSON = `[{"id":1,"name":"Starters"},{"id":2,"name":"Desserts"}]`

func categoryRoutes(deps *Deps) func(chi.Router) {
	h := NewResourceHandler(deps, categoryConfig(), categoryView())
	return func(r chi.Router) { r.Route("/admin/categories", h.Routes) }
}

func TestResourceListRendersRows(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusOK, categoriesJSON)

	rec := env.do(env.userContext(t, testAdmin), categoryRoutes(env.deps), http.MethodGet, "/admin/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Starters")
	assert.Contains(t, body, "Desserts")
	assert.Contains(t, body, "/admin/categories/1")

	call, ok := env.backend.call(http.MethodGet, pathCategories)
	require.True(t, ok)
	assert.Equal(t, "Bearer access-1", call.Auth)
}

func TestResourceListSearchFilters(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusOK, categoriesJSON)

	rec := env.do(env.userContext(t, testAdmin), categoryRoutes(env.deps), http.MethodGet, "/admin/categories?q=dess", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Desserts")
	assert.NotContains(t, rec.Body.String(), "Starters")
	assert.Contains(t, rec.Body.String(), "Clear search")
}

func TestResourceListStatusTabs(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathFranchise, http.StatusOK, `[
		{"id":5,"user_name":"Meera","user_email":"meera@example.com","user_phone":"9000000001","investment_budget":"50L","request_status":"pending"},
		{"id":6,"user_name":"Kabir","user_email":"kabir@example.com","user_phone":"9000000002","investment_budget":"1Cr","request_status":"approved"}
	]`)
	h := NewResourceHandler(env.deps, franchiseConfig(), franchiseView())
	mount := func(r chi.Router) { r.Route("/admin/franchise-requests", h.Routes) }

	rec := env.do(env.userContext(t, testAdmin), mount, http.MethodGet, "/admin/franchise-requests?status=approved", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Kabir")
	assert.NotContains(t, body, "Meera")
	assert.Contains(t, body, "Pending")
	assert.Contains(t, body, "Approved")
}

func TestBranchListStatusBadgeAndFilter(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathBranches, http.StatusOK, `[
		{"id":1,"name":"Campus Branch","latitude":19.99,"longitude":73.78,"address":"College Road","city":"Nashik","country":"India","branch_status":"open"}
	]`)
	h := NewResourceHandler(env.deps, branchConfig(nil), branchView())
	mount := func(r chi.Router) { r.Route("/admin/branches", h.Routes) }
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, mount, http.MethodGet, "/admin/branches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Campus Branch")
	assert.Contains(t, body, "Nashik")
	assert.Contains(t, body, `<span class="badge badge-success">Open</span>`)

	rec = env.do(ctx, mount, http.MethodGet, "/admin/branches?status=closed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.NotContains(t, body, "Campus Branch")
	assert.NotContains(t, body, `badge-success">Open`)
}

func TestResourceListBackendFailureShowsBanner(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusInternalServerError, `{"detail":"database offline"}`)

	rec := env.do(env.userContext(t, testAdmin), categoryRoutes(env.deps), http.MethodGet, "/admin/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "database offline")
}

func TestResourceCreate(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodPost, pathCategories, http.StatusCreated, `{"id":3,"name":"Mains"}`)
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, categoryRoutes(env.deps), http.MethodPost, "/admin/categories", url.Values{"name": {"Mains"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/categories", rec.Header().Get("Location"))

	flash := env.store.PopFlash(ctx)
	assert.Equal(t, resource.BannerSuccess, flash.Kind)
	assert.Equal(t, "Category created successfully!", flash.Message)

	call, ok := env.backend.call(http.MethodPost, pathCategories)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Mains"}`, call.Body)
	assert.Equal(t, "Bearer access-1", call.Auth)
}

func TestResourceCreateInvalid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(env.userContext(t, testAdmin), categoryRoutes(env.deps), http.MethodPost, "/admin/categories", url.Values{"name": {"  "}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name")
	assert.Zero(t, env.backend.count(http.MethodPost))
}

func TestResourceCreateBackendRejects(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodPost, pathCategories, http.StatusConflict, `{"detail":"Category already exists"}`)

	rec := env.do(env.userContext(t, testAdmin), categoryRoutes(env.deps), http.MethodPost, "/admin/categories", url.Values{"name": {"Starters"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Category already exists")
	assert.Contains(t, body, `value="Starters"`)
}

func TestResourceUpdateUsesPut(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusOK, categoriesJSON)
	env.backend.on(http.MethodPut, pathCategories+"/1", http.StatusOK, `{"id":1,"name":"Soups"}`)
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, categoryRoutes(env.deps), http.MethodPost, "/admin/categories/1", url.Values{"name": {"Soups"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/categories", rec.Header().Get("Location"))
	assert.Equal(t, "Category updated successfully!", env.store.PopFlash(ctx).Message)

	call, ok := env.backend.call(http.MethodPut, pathCategories+"/1")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Soups"}`, call.Body)
}

func TestResourceUpdateMissingRecord(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusOK, categoriesJSON)
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, categoryRoutes(env.deps), http.MethodGet, "/admin/categories/99/edit", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/categories", rec.Header().Get("Location"))
	flash := env.store.PopFlash(ctx)
	assert.Equal(t, resource.BannerError, flash.Kind)
	assert.Equal(t, "Category not found", flash.Message)
}

func TestResourceInvalidID(t *testing.T) {
	env := newTestEnv(t)
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, categoryRoutes(env.deps), http.MethodGet, "/admin/categories/abc", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Invalid category ID", env.store.PopFlash(ctx).Message)
}

func TestResourceDelete(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusOK, categoriesJSON)
	env.backend.on(http.MethodDelete, pathCategories+"/2", http.StatusNoContent, "")
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, categoryRoutes(env.deps), http.MethodPost, "/admin/categories/2/delete", url.Values{})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Category deleted successfully!", env.store.PopFlash(ctx).Message)
	_, ok := env.backend.call(http.MethodDelete, pathCategories+"/2")
	assert.True(t, ok)
}

func TestResourceChangeHookRunsAfterWrite(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodPost, pathCategories, http.StatusCreated, `{"id":3,"name":"Mains"}`)

	var changed int
	h := NewResourceHandler(env.deps, categoryConfig(), categoryView()).
		OnChange(func(context.Context) { changed++ })
	mount := func(r chi.Router) { r.Route("/admin/categories", h.Routes) }

	rec := env.do(env.userContext(t, testAdmin), mount, http.MethodPost, "/admin/categories", url.Values{"name": {"Mains"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, changed)
}

func TestResourceStatusAction(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodPut, pathFranchise+"5/status/approved", http.StatusOK, `{"id":5}`)
	h := NewResourceHandler(env.deps, franchiseConfig(), franchiseView())
	mount := func(r chi.Router) { r.Route("/admin/franchise-requests", h.Routes) }
	ctx := env.userContext(t, testManager)

	rec := env.do(ctx, mount, http.MethodPost, "/admin/franchise-requests/5/actions/status",
		url.Values{"value": {"approved"}, "next": {"/admin/franchise-requests?status=pending"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/franchise-requests?status=pending", rec.Header().Get("Location"))
	assert.Equal(t, "Request status updated to approved successfully", env.store.PopFlash(ctx).Message)
	_, ok := env.backend.call(http.MethodPut, pathFranchise+"5/status/approved")
	assert.True(t, ok)
}

func TestResourceStatusActionRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	h := NewResourceHandler(env.deps, franchiseConfig(), franchiseView())
	mount := func(r chi.Router) { r.Route("/admin/franchise-requests", h.Routes) }
	ctx := env.userContext(t, testManager)

	rec := env.do(ctx, mount, http.MethodPost, "/admin/franchise-requests/5/actions/status",
		url.Values{"value": {"archived"}, "next": {"https://evil.example/"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/franchise-requests", rec.Header().Get("Location"))
	flash := env.store.PopFlash(ctx)
	assert.Equal(t, resource.BannerError, flash.Kind)
	assert.Equal(t, "Please select a valid status.", flash.Message)
	assert.Zero(t, env.backend.count(http.MethodPut))
}

func TestProtectedUserCannotBeEdited(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathUsers, http.StatusOK,
		`[{"id":1,"username":"owner","email":"owner@spiceroute.test","role":"superadmin"}]`)
	h := NewResourceHandler(env.deps, userConfig(), userView())
	mount := func(r chi.Router) { r.Route("/admin/users", h.Routes) }
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, mount, http.MethodGet, "/admin/users/1/edit", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/users", rec.Header().Get("Location"))
	assert.Equal(t, "Super admin accounts cannot be modified.", env.store.PopFlash(ctx).Message)
}

func TestUsersRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)
	h := NewResourceHandler(env.deps, userConfig(), userView())
	mount := func(r chi.Router) { r.Route("/admin/users", h.Routes) }

	rec := env.do(env.userContext(t, testManager), mount, http.MethodGet, "/admin/users", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, env.backend.count(http.MethodGet))
}

func TestResourceExpiredSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)
	// A user in the request context but no backend tokens in the session.
	ctx := env.anonContext(t)
	rec := env.do(middleware.WithUser(ctx, testAdmin), categoryRoutes(env.deps), http.MethodGet, "/admin/categories", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fadmin%2Fcategories", rec.Header().Get("Location"))
	assert.Equal(t, msgSessionExpired, env.store.PopFlash(ctx).Message)
	assert.Zero(t, env.backend.count(http.MethodGet))
}

func TestResourceRefreshesRejectedToken(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on(http.MethodGet, pathCategories, http.StatusUnauthorized, `{"detail":"token expired"}`)
	env.backend.on(http.MethodPost, "/users/refresh-token", http.StatusUnauthorized, `{"detail":"refresh expired"}`)
	ctx := env.userContext(t, testAdmin)

	rec := env.do(ctx, categoryRoutes(env.deps), http.MethodGet, "/admin/categories", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
	_, ok := env.backend.call(http.MethodPost, "/users/refresh-token")
	assert.True(t, ok)
	_, signedIn := env.store.Tokens(ctx)
	assert.False(t, signedIn)
}
