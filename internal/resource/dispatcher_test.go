// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/validation"
)

var branchConfig = Config[model.Branch]{
	Endpoint: Endpoint{ListPath: "/branches/"},
	Form:     validation.BranchSchema,
	List:     branchList,
	Messages: Messages{
		Noun:    "Branch",
		Created: "Branch created successfully!",
	},
}

func validBranchForm() *Form {
	f := NewForm(validation.BranchSchema)
	for k, v := range map[string]string{
		"name": "Lakeside", "latitude": "19.99", "longitude": "73.78",
		"address": "College Road", "city": "Nashik", "country": "India",
	} {
		f.Set(k, v)
	}
	return f
}

func TestDispatcher_InvalidDraftSendsNothing(t *testing.T) {
	doer := &fakeDoer{list: testBranches}
	c := NewController(doer, branchConfig, time.Second, nil)

	f := validBranchForm()
	f.Set("latitude", "north")
	banner, err := c.Create(context.Background(), f)

	require.ErrorIs(t, err, ErrInvalid)
	assert.True(t, banner.IsZero())
	assert.Equal(t, "Latitude must be a valid number", f.Error("latitude"))
	assert.Empty(t, doer.requests)
}

func TestDispatcher_CreateRefetchesAndNotifies(t *testing.T) {
	doer := &fakeDoer{list: testBranches}
	c := NewController(doer, branchConfig, 5*time.Second, nil)

	var changed int
	c.OnChange(func(context.Context) { changed++ })

	f := validBranchForm()
	f.Set("parking_availability", "true")
	f.Attach(Upload{Field: "image", Filename: "front.png", ContentType: "image/png", Data: pngHeader})

	banner, err := c.Create(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, BannerSuccess, banner.Kind)
	assert.Equal(t, "Branch created successfully!", banner.Message)
	assert.Equal(t, 5*time.Second, banner.Dismiss)
	assert.Equal(t, 1, changed)
	assert.False(t, f.Dirty)
	assert.False(t, f.Submitting)

	req, ok := doer.last(http.MethodPost)
	require.True(t, ok)
	assert.Equal(t, "/branches/", req.Path)
	require.NotNil(t, req.Form, "file schemas are sent as multipart")
	name, _ := req.Form.Value("name")
	assert.Equal(t, "Lakeside", name)
	parking, _ := req.Form.Value("parking_availability")
	assert.Equal(t, "true", parking)
	_, sent := req.Form.Value("seating_capacity")
	assert.False(t, sent, "empty numbers are left out")
	require.Len(t, req.Form.Files(), 1)
	assert.Equal(t, "front.png", req.Form.Files()[0].Filename)

	assert.Equal(t, 1, doer.count(http.MethodGet), "collection refetched")
	assert.Len(t, c.Collection.Items(), len(testBranches))
}

func TestDispatcher_UpdateAndDeleteRefetch(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		message string
		run     func(*Controller[model.Branch]) (Banner, error)
	}{
		{
			name:    "update",
			method:  http.MethodPut,
			message: "Branch updated successfully!",
			run: func(c *Controller[model.Branch]) (Banner, error) {
				return c.Update(context.Background(), testBranches[0], validBranchForm())
			},
		},
		{
			name:    "delete",
			method:  http.MethodDelete,
			message: "Branch deleted successfully!",
			run: func(c *Controller[model.Branch]) (Banner, error) {
				return c.Delete(context.Background(), testBranches[0])
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &fakeDoer{list: testBranches}
			c := NewController(doer, branchConfig, time.Second, nil)
			var changed int
			c.OnChange(func(context.Context) { changed++ })

			banner, err := tt.run(c)
			require.NoError(t, err)
			assert.Equal(t, tt.message, banner.Message)

			req, ok := doer.last(tt.method)
			require.True(t, ok)
			assert.Equal(t, "/branches/1", req.Path)
			require.Len(t, doer.requests, 2)
			assert.Equal(t, http.MethodGet, doer.requests[1].Method, "write is followed by a refetch")
			assert.Equal(t, 1, changed)
		})
	}
}

func TestDispatcher_UpdateUserAsJSON(t *testing.T) {
	doer := &fakeDoer{}
	cfg := Config[model.User]{
		Endpoint: Endpoint{ListPath: "/users", CreatePath: "/users/register"},
		Form:     validation.UserSchema,
		Messages: Messages{Noun: "User"},
	}
	c := NewController(doer, cfg, time.Second, nil)

	u := model.User{ID: 7, Username: "asha", Email: "asha@example.com", MobileNumber: "+919876543210", Role: model.RoleAdmin}
	f := c.EditForm(u)
	f.Set("role", "manager")

	banner, err := c.Update(context.Background(), u, f)
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully!", banner.Message)

	req, ok := doer.last(http.MethodPut)
	require.True(t, ok)
	assert.Equal(t, "/users/7", req.Path)
	assert.Nil(t, req.Form)
	body, ok := req.JSON.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "manager", body["role"])
	assert.NotContains(t, body, "password", "blank password is not sent")
}

func TestDispatcher_QueryFieldsAndPrepare(t *testing.T) {
	doer := &fakeDoer{}
	cfg := Config[model.GalleryImage]{
		Endpoint: Endpoint{
			ListPath:    "/images/images/",
			CreatePath:  "/images/images/add",
			QueryFields: []string{"name", "category_id"},
			OmitFields:  []string{"category_name"},
		},
		Form:     validation.GalleryImageSchema,
		Messages: Messages{Noun: "Image"},
		Prepare: func(_ context.Context, f *Form) error {
			if f.Value("category_name") != "Interiors" {
				f.Errors.Add("category_name", "Please select a valid category.")
				return nil
			}
			f.Extra["category_id"] = int64(3)
			return nil
		},
		Transform: func(u Upload) (Upload, error) {
			u.Filename = "normalized.jpg"
			return u, nil
		},
	}
	c := NewController(doer, cfg, time.Second, nil)

	f := c.NewForm()
	f.Set("name", "Window seat")
	f.Set("category_name", "Patio")
	f.Attach(Upload{Field: "file", Filename: "w.png", ContentType: "image/png", Data: pngHeader})

	_, err := c.Create(context.Background(), f)
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "Please select a valid category.", f.Error("category_name"))
	assert.Empty(t, doer.requests)

	f.Set("category_name", "Interiors")
	_, err = c.Create(context.Background(), f)
	require.NoError(t, err)

	req, ok := doer.last(http.MethodPost)
	require.True(t, ok)
	assert.Equal(t, "/images/images/add", req.Path)
	assert.Equal(t, "Window seat", req.Query.Get("name"))
	assert.Equal(t, "3", req.Query.Get("category_id"))
	_, inBody := req.Form.Value("name")
	assert.False(t, inBody)
	_, inBody = req.Form.Value("category_name")
	assert.False(t, inBody)
	require.Len(t, req.Form.Files(), 1)
	assert.Equal(t, "normalized.jpg", req.Form.Files()[0].Filename)
}

func TestDispatcher_FailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server text verbatim", &apiclient.APIError{Status: 400, Message: "Branch already exists"}, "Branch already exists"},
		{"no server text", &apiclient.APIError{Status: 500}, "Failed to create branch. Please try again."},
		{"network", fmt.Errorf("post: %w", apiclient.ErrNetwork), "Failed to create branch. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &fakeDoer{errs: map[string]error{http.MethodPost: tt.err}}
			c := NewController(doer, branchConfig, time.Second, nil)

			f := validBranchForm()
			banner, err := c.Create(context.Background(), f)
			require.Error(t, err)
			assert.Equal(t, BannerError, banner.Kind)
			assert.Equal(t, tt.want, banner.Message)
			assert.Zero(t, banner.Dismiss, "errors stay until dismissed")
			assert.Zero(t, doer.count(http.MethodGet), "no refetch after a failed write")
			assert.True(t, f.Dirty, "draft kept for another attempt")
		})
	}
}

func TestDispatcher_ForbiddenMessage(t *testing.T) {
	doer := &fakeDoer{errs: map[string]error{
		http.MethodDelete: &apiclient.APIError{Status: 403, Message: "Not enough permissions"},
	}}
	cfg := Config[model.User]{
		Endpoint: Endpoint{ListPath: "/users"},
		Form:     validation.UserSchema,
		Messages: Messages{Noun: "User", DeleteForbidden: "You do not have permission to delete this user"},
	}
	c := NewController(doer, cfg, time.Second, nil)

	banner, err := c.Delete(context.Background(), model.User{ID: 4, Role: model.RoleUser})
	require.True(t, apiclient.IsForbidden(err))
	assert.Equal(t, "You do not have permission to delete this user", banner.Message)
}

func TestDispatcher_SessionExpiredPropagates(t *testing.T) {
	doer := &fakeDoer{errs: map[string]error{http.MethodDelete: apiclient.ErrSessionExpired}}
	c := NewController(doer, branchConfig, time.Second, nil)

	_, err := c.Delete(context.Background(), testBranches[0])
	require.ErrorIs(t, err, apiclient.ErrSessionExpired)
}

func TestController_LockedRecords(t *testing.T) {
	doer := &fakeDoer{}
	cfg := Config[model.User]{
		Endpoint:     Endpoint{ListPath: "/users"},
		Form:         validation.UserSchema,
		Messages:     Messages{Noun: "User"},
		Locked:       model.User.IsProtected,
		LockedReason: "The super admin account cannot be modified.",
	}
	c := NewController(doer, cfg, time.Second, nil)

	boss := model.User{ID: 1, Role: model.RoleSuperAdmin}
	banner, err := c.Delete(context.Background(), boss)
	require.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, "The super admin account cannot be modified.", banner.Message)

	_, err = c.Update(context.Background(), boss, c.EditForm(boss))
	require.ErrorIs(t, err, ErrLocked)
	assert.Empty(t, doer.requests)
}

func TestDispatcher_Actions(t *testing.T) {
	doer := &fakeDoer{}
	cfg := Config[model.Testimonial]{
		Endpoint: Endpoint{
			ListPath: "/testimonial/",
			Actions: map[string]Action{
				"status": {
					Method:     http.MethodPatch,
					Path:       func(id int64, _ string) string { return "/testimonial/" + strconv.FormatInt(id, 10) + "/status" },
					QueryParam: "status",
					Allowed:    []string{"pending", "approved", "rejected"},
				},
				"review": {
					Method:    http.MethodPut,
					Path:      func(id int64, _ string) string { return "/job-applications/" + strconv.FormatInt(id, 10) + "/status" },
					JSONField: "status",
					Success:   func(v string) string { return "Application marked " + v },
				},
			},
		},
		Form:     validation.TestimonialSchema,
		Messages: Messages{Noun: "Testimonial"},
	}
	c := NewController(doer, cfg, time.Second, nil)
	ctx := context.Background()

	banner, err := c.Action(ctx, 3, "status", "approved")
	require.NoError(t, err)
	assert.Equal(t, "Status updated successfully to approved", banner.Message)
	req, _ := doer.last(http.MethodPatch)
	assert.Equal(t, "/testimonial/3/status", req.Path)
	assert.Equal(t, "approved", req.Query.Get("status"))

	banner, err = c.Action(ctx, 9, "review", "Selected")
	require.NoError(t, err)
	assert.Equal(t, "Application marked Selected", banner.Message)
	req, _ = doer.last(http.MethodPut)
	assert.Equal(t, map[string]string{"status": "Selected"}, req.JSON)

	_, err = c.Action(ctx, 3, "status", "deleted")
	require.ErrorIs(t, err, ErrInvalid)
	_, err = c.Action(ctx, 3, "archive", "x")
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, 1, doer.count(http.MethodPatch))
}

func TestController_ListKeepsItemsOnFailure(t *testing.T) {
	doer := &fakeDoer{list: testBranches}
	c := NewController(doer, branchConfig, time.Second, nil)

	page, err := c.List(context.Background(), ListQuery{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)

	doer.errs = map[string]error{http.MethodGet: fmt.Errorf("get: %w", apiclient.ErrNetwork)}
	page, err = c.List(context.Background(), ListQuery{PageSize: 2, Page: 2})
	require.ErrorIs(t, err, apiclient.ErrNetwork)
	assert.Equal(t, []int64{3, 4}, ids(page.Items))
	assert.Equal(t, "Failed to load branch data.", c.Collection.Err())
}

func TestController_Load(t *testing.T) {
	doer := &fakeDoer{list: testBranches}
	c := NewController(doer, branchConfig, time.Second, nil)

	b, err := c.Load(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Riverside", b.Name)

	_, err = c.Load(context.Background(), 42)
	assert.True(t, apiclient.IsNotFound(err))
}
