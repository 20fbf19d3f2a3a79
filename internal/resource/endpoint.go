// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// Endpoint describes where a resource lives on the backend.
type Endpoint struct {
	// ListPath is fetched for the whole collection.
	ListPath string
	// FilterPath, when set, is fetched instead of ListPath for a non-empty
	// filter value.
	FilterPath func(filter string) string
	// CreatePath defaults to ListPath.
	CreatePath string
	// ItemPath defaults to ListPath without its trailing slash plus the id.
	ItemPath func(id int64) string
	// UpdateMethod defaults to PUT.
	UpdateMethod string
	// QueryFields are sent in the query string instead of the body.
	QueryFields []string
	// OmitFields are schema fields that are never sent, such as a name
	// resolved to an id before submission.
	OmitFields []string
	// Actions are named status transitions.
	Actions map[string]Action
}

// Action is a single-field mutation such as a status change.
type Action struct {
	Method string
	// Path builds the request path for record id and the submitted value.
	Path func(id int64, value string) string
	// QueryParam sends the value as this query parameter.
	QueryParam string
	// JSONField sends the value as {JSONField: value}.
	JSONField string
	// Allowed lists the accepted values; empty accepts any non-empty value.
	Allowed []string
	Success func(value string) string
	Failure string
}

func (e Endpoint) listPath(filter string) string {
	if filter != "" && e.FilterPath != nil {
		return e.FilterPath(filter)
	}
	return e.ListPath
}

func (e Endpoint) createPath() string {
	if e.CreatePath != "" {
		return e.CreatePath
	}
	return e.ListPath
}

func (e Endpoint) itemPath(id int64) string {
	if e.ItemPath != nil {
		return e.ItemPath(id)
	}
	return strings.TrimRight(e.ListPath, "/") + "/" + strconv.FormatInt(id, 10)
}

func (e Endpoint) updateMethod() string {
	if e.UpdateMethod != "" {
		return e.UpdateMethod
	}
	return http.MethodPut
}

func (e Endpoint) isQueryField(name string) bool {
	return slices.Contains(e.QueryFields, name)
}

func (e Endpoint) omits(name string) bool {
	return slices.Contains(e.OmitFields, name)
}

func (a Action) allows(value string) bool {
	if value == "" {
		return false
	}
	return len(a.Allowed) == 0 || slices.Contains(a.Allowed, value)
}
