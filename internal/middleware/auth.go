// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/olegiv/restro-web/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the signed-in back-office user.
const ContextKeyUser ContextKey = "user"

// LoginPath is where unauthenticated back-office requests are sent.
const LoginPath = "/login"

// UserSource looks up the signed-in user of a request session.
type UserSource interface {
	User(ctx context.Context) (model.User, bool)
}

// LoadUser adds the session user, if any, to the request context.
func LoadUser(src UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := src.User(r.Context()); ok {
				r = r.WithContext(WithUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, u)
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	u, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &u
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if u := GetUser(r); u != nil {
		return u.ID
	}
	return 0
}

// RequireAuth redirects requests without a signed-in user to the login
// page, remembering where they were going.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectToLogin sends the browser to the login page with a return path.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if r.Method == http.MethodGet && r.URL.Path != LoginPath {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RequireBackOffice allows users whose role may use the admin area.
func RequireBackOffice(next http.Handler) http.Handler {
	return requireRole(next, func(role model.Role) bool { return role.CanAccessBackOffice() }, "back-office")
}

// RequireRole allows only the listed roles.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return requireRole(next, func(role model.Role) bool { return slices.Contains(roles, role) }, roleNames(roles))
	}
}

func requireRole(next http.Handler, allowed func(model.Role) bool, required string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			RedirectToLogin(w, r)
			return
		}
		if !allowed(user.Role) {
			slog.WarnContext(r.Context(), "access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", user.ID,
				"user_role", user.Role,
				"required_role", required,
			)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func roleNames(roles []model.Role) string {
	names := ""
	for i, role := range roles {
		if i > 0 {
			names += ","
		}
		names += string(role)
	}
	return names
}
