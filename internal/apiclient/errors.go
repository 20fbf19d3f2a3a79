// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNetwork is returned when the backend could not be reached.
	ErrNetwork = errors.New("backend unreachable")
	// ErrSessionExpired is returned when the token refresh failed or the
	// retried request was rejected again. The caller must sign the user out.
	ErrSessionExpired = errors.New("session expired")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string // server supplied text, empty when none was found
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// UserMessage returns the server's message for err verbatim, or fallback
// when the backend gave none.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// messageKeys are checked in order for a server supplied message.
var messageKeys = []string{"detail", "error", "message"}

// extractMessage pulls the error text out of a JSON error body.
func extractMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range messageKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		if msg := decodeMessage(raw); msg != "" {
			return msg
		}
	}
	return ""
}

// decodeMessage accepts a plain string or a list of {loc, msg} items.
func decodeMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, it := range items {
		if it.Msg == "" {
			continue
		}
		if n := len(it.Loc); n > 0 {
			msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[n-1], it.Msg))
		} else {
			msgs = append(msgs, it.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}
