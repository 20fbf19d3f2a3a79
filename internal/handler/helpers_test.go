// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/session"
	"github.com/olegiv/restro-web/web"
)

// backendCall is one request received by the fake backend.
type backendCall struct {
	Method      string
	Path        string
	Query       string
	Body        string
	ContentType string
	Auth        string
}

type fakeResponse struct {
	status int
	body   string
}

// fakeBackend answers "METHOD /path" keys with canned JSON and records every
// request. Unknown keys get a 404.
type fakeBackend struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []backendCall
}

func (b *fakeBackend) on(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[method+" "+path] = fakeResponse{status: status, body: body}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.calls = append(b.calls, backendCall{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.RawQuery,
		Body:        string(body),
		ContentType: r.Header.Get("Content-Type"),
		Auth:        r.Header.Get("Authorization"),
	})
	resp, ok := b.responses[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

// call returns the first request made with method and path.
func (b *fakeBackend) call(method, path string) (backendCall, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			return c, true
		}
	}
	return backendCall{}, false
}

// count returns how many requests used method.
func (b *fakeBackend) count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

type testEnv struct {
	backend *fakeBackend
	deps    *Deps
	sm      *scs.SessionManager
	store   *session.Store
}

var testCreds = apiclient.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1", CSRFToken: "csrf-1"}

var (
	testAdmin      = model.User{ID: 7, Username: "priya", Email: "priya@spiceroute.test", Role: model.RoleAdmin}
	testManager    = model.User{ID: 8, Username: "arjun", Email: "arjun@spiceroute.test", Role: model.RoleManager}
	testSuperAdmin = model.User{ID: 1, Username: "owner", Email: "owner@spiceroute.test", Role: model.RoleSuperAdmin}
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := &fakeBackend{responses: map[string]fakeResponse{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	sm := session.New(true)
	store := session.NewStore(sm)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		Flashes:     store,
		IsDev:       true,
		SiteName:    "Spice Route",
	})
	require.NoError(t, err)

	return &testEnv{
		backend: backend,
		sm:      sm,
		store:   store,
		deps: &Deps{
			API:        apiclient.New(srv.URL, 5*time.Second),
			Sessions:   store,
			Renderer:   renderer,
			FlashDelay: time.Second,
			PageSize:   10,
			MaxUpload:  1 << 20,
			Logger:     slog.New(slog.DiscardHandler),
		},
	}
}

// anonContext returns a request context with an empty session.
func (e *testEnv) anonContext(t *testing.T) context.Context {
	t.Helper()
	ctx, err := e.sm.Load(context.Background(), "")
	require.NoError(t, err)
	return ctx
}

// userContext returns a request context signed in as u with backend tokens.
func (e *testEnv) userContext(t *testing.T, u model.User) context.Context {
	t.Helper()
	ctx := e.anonContext(t)
	require.NoError(t, e.store.SignIn(ctx, testCreds, u))
	return middleware.WithUser(ctx, u)
}

// do sends a request through a router built by mount. A non-nil form is
// sent url-encoded.
func (e *testEnv) do(ctx context.Context, mount func(chi.Router), method, target string, form url.Values) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	mount(r)

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body).WithContext(ctx)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
