// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/resource"
	"github.com/olegiv/restro-web/internal/validation"
)

// Sign-in messages.
const (
	msgAccountLocked    = "Account temporarily locked. Please try again in %s."
	msgTooManyAttempts  = "Too many failed attempts. Account locked for %s."
	msgAttemptsLeft     = "Invalid email or password. %d attempts remaining."
	msgBackOfficeDenied = "Access denied. This area is restricted to staff accounts."
	msgWelcomeBack      = "Welcome back, %s!"
	msgLoggedOut        = "You have been signed out."
	msgSignInFailed     = "Could not start your session. Please try again."
)

// AuthHandler handles sign-in and sign-out against the backend.
type AuthHandler struct {
	deps            *Deps
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(deps *Deps, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{deps: deps, loginProtection: lp}
}

// LoginData holds data for the sign-in template.
type LoginData struct {
	Form   *resource.Form
	Fields []FieldView
	Next   string
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, status int, f *resource.Form, next string, banner resource.Banner) {
	h.deps.Renderer.RenderPageStatus(w, r, status, "auth/login", render.TemplateData{
		Title:  validation.LoginSchema.Title,
		Banner: banner,
		Data: LoginData{
			Form:   f,
			Fields: fieldViews(f, nil),
			Next:   next,
		},
	})
}

// LoginForm renders the login page. Signed-in staff go straight to the
// dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := localRedirect(r.URL.Query().Get("next"), redirectAdmin)
	if user := middleware.GetUser(r); user != nil && user.Role.CanAccessBackOffice() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, resource.NewForm(validation.LoginSchema), next, resource.Banner{})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.deps.logger()

	f := resource.NewForm(validation.LoginSchema)
	if err := f.Bind(r, h.deps.MaxUpload); err != nil {
		flashError(w, r, h.deps.Renderer, redirectLogin, msgInvalidForm)
		return
	}
	next := localRedirect(r.PostFormValue("next"), redirectAdmin)
	if !f.Validate() {
		h.render(w, r, http.StatusUnprocessableEntity, f, next, resource.Banner{})
		return
	}

	email := strings.ToLower(strings.TrimSpace(f.Value("email")))
	fail := func(msg string) {
		f.Values["password"] = ""
		h.render(w, r, http.StatusOK, f, next, resource.ErrorBanner(msg))
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			logger.WarnContext(ctx, "login attempt on locked account", "email", email)
			fail(fmt.Sprintf(msgAccountLocked, formatDuration(remaining)))
			return
		}
	}

	creds, err := h.deps.API.Login(ctx, email, f.Value("password"))
	if err != nil {
		logger.InfoContext(ctx, "login failed", "email", email, "error", err)
		if apiclient.IsUnauthorized(err) {
			fail(h.failedAttempt(email))
			return
		}
		fail(apiclient.LoginMessage(err))
		return
	}

	user, err := h.deps.API.Me(ctx, creds)
	if err != nil {
		logger.ErrorContext(ctx, "loading signed-in user failed", "email", email, "error", err)
		fail(apiclient.LoginMessage(err))
		return
	}
	if !user.Role.CanAccessBackOffice() {
		logger.WarnContext(ctx, "back-office sign-in refused", "user_id", user.ID, "role", user.Role)
		fail(msgBackOfficeDenied)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	if err := h.deps.Sessions.SignIn(ctx, creds, user); err != nil {
		logger.ErrorContext(ctx, "session sign-in failed", "error", err)
		fail(msgSignInFailed)
		return
	}

	logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "role", user.Role)
	name := user.Username
	if name == "" {
		name = user.Email
	}
	flashAndRedirect(w, r, h.deps.Renderer, next, resource.SuccessBanner(fmt.Sprintf(msgWelcomeBack, name), h.deps.FlashDelay))
}

// failedAttempt records a rejected password and returns the message to show.
func (h *AuthHandler) failedAttempt(email string) string {
	if h.loginProtection == nil {
		return apiclient.LoginMessage(&apiclient.APIError{Status: http.StatusUnauthorized})
	}
	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		return fmt.Sprintf(msgTooManyAttempts, formatDuration(lockDuration))
	}
	if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
		return fmt.Sprintf(msgAttemptsLeft, remaining)
	}
	return apiclient.LoginMessage(&apiclient.APIError{Status: http.StatusUnauthorized})
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.deps.Sessions.SignOut(r.Context()); err != nil {
		h.deps.logger().ErrorContext(r.Context(), "session destroy error", "error", err)
	}
	h.deps.logger().InfoContext(r.Context(), "user logged out", "user_id", userID)
	flashSuccess(w, r, h.deps.Renderer, redirectLogin, msgLoggedOut)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
