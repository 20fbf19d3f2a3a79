// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/olegiv/restro-web/internal/model"
)

// Auth endpoints
const (
	PathLogin        = "/users/login"
	PathRefreshToken = "/users/refresh-token"
	PathMe           = "/users/me"
)

// Login exchanges an email and password for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var creds Credentials
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathLogin,
		JSON:   map[string]string{"email": email, "password": password},
	}, Credentials{}, &creds)
	if err != nil {
		return Credentials{}, err
	}
	if !creds.Valid() {
		return Credentials{}, fmt.Errorf("login: response carried no access token")
	}
	return creds, nil
}

// Refresh obtains a new access token. The refresh token is sent as the
// bearer token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Credentials, error) {
	if refreshToken == "" {
		return Credentials{}, errors.New("no refresh token")
	}
	var creds Credentials
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathRefreshToken,
		JSON:   struct{}{},
	}, Credentials{AccessToken: refreshToken}, &creds)
	if err != nil {
		return Credentials{}, err
	}
	if !creds.Valid() {
		return Credentials{}, errors.New("refresh: response carried no access token")
	}
	return creds, nil
}

// Me returns the user the credentials belong to.
func (c *Client) Me(ctx context.Context, creds Credentials) (model.User, error) {
	var u model.User
	if err := c.Do(ctx, Get(PathMe), creds, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// LoginMessage maps a login failure to the message shown on the sign-in form.
func LoginMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusBadRequest:
			return "Invalid request. Please check your input."
		case http.StatusUnauthorized:
			return "Invalid email or password."
		case http.StatusForbidden:
			return "Account is disabled or not authorized."
		case http.StatusTooManyRequests:
			return "Too many attempts. Please try again later."
		case http.StatusInternalServerError:
			return "Server error. Please try again later."
		}
		return "Login failed. Please try again."
	case errors.Is(err, ErrNetwork):
		return "Network error. Please check your connection."
	}
	return "An unexpected error occurred."
}
