// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the signed-in user, the backend tokens and flash
// banners in a server-side scs session.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/resource"
)

// Session keys.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyCSRFToken    = "csrf_token"

	keyUserID   = "user_id"
	keyUsername = "username"
	keyEmail    = "email"
	keyRole     = "role"

	keyFlash        = "flash"
	keyFlashKind    = "flash_kind"
	keyFlashDismiss = "flash_dismiss_ms"
)

// Lifetime is how long an idle back-office session is kept.
const Lifetime = 12 * time.Hour

// New creates a session manager backed by an in-memory store.
func New(isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()

	sm.Lifetime = Lifetime
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}
	return sm
}

// Store implements apiclient.TokenStore on top of the request session.
type Store struct {
	sm *scs.SessionManager
}

// NewStore wraps sm.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Tokens implements apiclient.TokenStore.
func (s *Store) Tokens(ctx context.Context) (apiclient.Credentials, bool) {
	creds := apiclient.Credentials{
		AccessToken:  s.sm.GetString(ctx, keyAccessToken),
		RefreshToken: s.sm.GetString(ctx, keyRefreshToken),
		CSRFToken:    s.sm.GetString(ctx, keyCSRFToken),
	}
	return creds, creds.Valid()
}

// SaveTokens implements apiclient.TokenStore.
func (s *Store) SaveTokens(ctx context.Context, creds apiclient.Credentials) error {
	s.sm.Put(ctx, keyAccessToken, creds.AccessToken)
	s.sm.Put(ctx, keyRefreshToken, creds.RefreshToken)
	s.sm.Put(ctx, keyCSRFToken, creds.CSRFToken)
	return nil
}

// ClearTokens implements apiclient.TokenStore. The user is signed out too.
func (s *Store) ClearTokens(ctx context.Context) error {
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyCSRFToken, keyUserID, keyUsername, keyEmail, keyRole} {
		s.sm.Remove(ctx, key)
	}
	return nil
}

// SignIn stores the tokens and the user under a fresh session token.
func (s *Store) SignIn(ctx context.Context, creds apiclient.Credentials, u model.User) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return err
	}
	if err := s.SaveTokens(ctx, creds); err != nil {
		return err
	}
	s.sm.Put(ctx, keyUserID, u.ID)
	s.sm.Put(ctx, keyUsername, u.Username)
	s.sm.Put(ctx, keyEmail, u.Email)
	s.sm.Put(ctx, keyRole, string(u.Role))
	return nil
}

// SignOut destroys the session.
func (s *Store) SignOut(ctx context.Context) error {
	return s.sm.Destroy(ctx)
}

// User returns the signed-in user.
func (s *Store) User(ctx context.Context) (model.User, bool) {
	id := s.sm.GetInt64(ctx, keyUserID)
	if id == 0 {
		return model.User{}, false
	}
	return model.User{
		ID:       id,
		Username: s.sm.GetString(ctx, keyUsername),
		Email:    s.sm.GetString(ctx, keyEmail),
		Role:     model.Role(s.sm.GetString(ctx, keyRole)),
	}, true
}

// Flash stores a banner for the next rendered page.
func (s *Store) Flash(ctx context.Context, b resource.Banner) {
	if b.IsZero() {
		return
	}
	s.sm.Put(ctx, keyFlash, b.Message)
	s.sm.Put(ctx, keyFlashKind, string(b.Kind))
	s.sm.Put(ctx, keyFlashDismiss, int(b.Dismiss.Milliseconds()))
}

// PopFlash returns and removes the stored banner.
func (s *Store) PopFlash(ctx context.Context) resource.Banner {
	msg := s.sm.PopString(ctx, keyFlash)
	if msg == "" {
		return resource.Banner{}
	}
	kind := resource.BannerKind(s.sm.PopString(ctx, keyFlashKind))
	if kind == "" {
		kind = resource.BannerInfo
	}
	return resource.Banner{
		Kind:    kind,
		Message: msg,
		Dismiss: time.Duration(s.sm.PopInt(ctx, keyFlashDismiss)) * time.Millisecond,
	}
}

var _ apiclient.TokenStore = (*Store)(nil)
