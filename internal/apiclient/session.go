// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/olegiv/restro-web/internal/metrics"
)

// State is the authentication state of a Session.
type State int

// Session states
const (
	StateAuthenticated State = iota
	StateRefreshing
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// TokenStore persists the credentials of one signed-in user.
type TokenStore interface {
	Tokens(ctx context.Context) (Credentials, bool)
	SaveTokens(ctx context.Context, creds Credentials) error
	ClearTokens(ctx context.Context) error
}

// Session performs authenticated calls for one user request. A 401 triggers
// a single token refresh followed by a single retry; if either fails the
// stored credentials are cleared and ErrSessionExpired is returned.
//
// A Session is safe for concurrent use; concurrent 401s share one refresh.
type Session struct {
	client *Client
	store  TokenStore

	mu        sync.Mutex
	state     State
	creds     Credentials
	loaded    bool
	refreshed bool
}

// NewSession binds the client to a token store.
func (c *Client) NewSession(store TokenStore) *Session {
	return &Session{client: c, store: store}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// credentials returns the tokens to use, loading them from the store once.
func (s *Session) credentials(ctx context.Context) (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnauthenticated {
		return Credentials{}, ErrSessionExpired
	}
	if !s.loaded {
		creds, ok := s.store.Tokens(ctx)
		s.loaded = true
		if !ok || !creds.Valid() {
			s.state = StateUnauthenticated
			return Credentials{}, ErrSessionExpired
		}
		s.creds = creds
	}
	return s.creds, nil
}

// Do performs req with the session tokens and decodes the response into out.
func (s *Session) Do(ctx context.Context, req Request, out any) error {
	creds, err := s.credentials(ctx)
	if err != nil {
		return err
	}

	err = s.client.Do(ctx, req, creds, out)
	if !IsUnauthorized(err) {
		return err
	}

	retryCreds, err := s.renew(ctx, creds)
	if err != nil {
		return err
	}

	err = s.client.Do(ctx, req, retryCreds, out)
	if IsUnauthorized(err) {
		s.expire(ctx)
		return fmt.Errorf("%s %s rejected after refresh: %w", req.Method, req.Path, ErrSessionExpired)
	}
	return err
}

// renew returns fresh credentials after a 401 obtained with used. Only one
// refresh is attempted per session; callers that lost the race reuse its
// result.
func (s *Session) renew(ctx context.Context, used Credentials) (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state == StateUnauthenticated:
		return Credentials{}, ErrSessionExpired
	case s.creds.AccessToken != used.AccessToken:
		return s.creds, nil
	case s.refreshed:
		s.expireLocked(ctx)
		return Credentials{}, ErrSessionExpired
	}

	s.state = StateRefreshing
	s.refreshed = true

	fresh, err := s.client.Refresh(ctx, s.creds.RefreshToken)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		s.client.logger.Info("token refresh failed, signing out", "error", err)
		s.expireLocked(ctx)
		return Credentials{}, fmt.Errorf("refreshing token: %w: %w", ErrSessionExpired, err)
	}
	metrics.TokenRefreshes.WithLabelValues("ok").Inc()

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.creds.RefreshToken
	}
	if fresh.CSRFToken == "" {
		fresh.CSRFToken = s.creds.CSRFToken
	}
	if err := s.store.SaveTokens(ctx, fresh); err != nil {
		s.client.logger.Warn("failed to persist refreshed tokens", "error", err)
	}
	s.creds = fresh
	s.state = StateAuthenticated
	return fresh, nil
}

func (s *Session) expire(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(ctx)
}

func (s *Session) expireLocked(ctx context.Context) {
	s.state = StateUnauthenticated
	s.creds = Credentials{}
	if err := s.store.ClearTokens(ctx); err != nil {
		s.client.logger.Warn("failed to clear tokens", "error", err)
	}
}
