// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"net/url"
	"strconv"
	"strings"
)

// SortDir is a sort direction.
type SortDir string

// Sort directions
const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// ListQuery holds the search, filter, sort and page state of a list view.
type ListQuery struct {
	Search   string
	Status   string
	Filter   string // server-side filter, e.g. a menu category
	Sort     string
	Dir      SortDir
	Page     int
	PageSize int
}

// ParseListQuery reads a ListQuery from URL values, falling back to def.
func ParseListQuery(v url.Values, def ListQuery) ListQuery {
	q := def
	q.Search = strings.TrimSpace(v.Get("q"))
	if s := v.Get("status"); s != "" {
		q.Status = s
	}
	if f := v.Get("filter"); f != "" {
		q.Filter = f
	}
	if s := v.Get("sort"); s != "" {
		q.Sort = s
		q.Dir = Asc
	}
	switch SortDir(v.Get("dir")) {
	case Asc:
		q.Dir = Asc
	case Desc:
		q.Dir = Desc
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// WithSearch returns a copy searching for term, reset to page 1.
func (q ListQuery) WithSearch(term string) ListQuery {
	q.Search = term
	q.Page = 1
	return q
}

// WithStatus returns a copy filtered to status, reset to page 1.
func (q ListQuery) WithStatus(status string) ListQuery {
	q.Status = status
	q.Page = 1
	return q
}

// WithFilter returns a copy with the server-side filter set, reset to page 1.
func (q ListQuery) WithFilter(filter string) ListQuery {
	q.Filter = filter
	q.Page = 1
	return q
}

// WithSort returns a copy sorted by key in dir, reset to page 1.
func (q ListQuery) WithSort(key string, dir SortDir) ListQuery {
	q.Sort = key
	q.Dir = dir
	q.Page = 1
	return q
}

// ToggleSort sorts by key ascending, or flips to descending when key is
// already sorted ascending.
func (q ListQuery) ToggleSort(key string) ListQuery {
	if q.Sort == key && q.Dir == Asc {
		return q.WithSort(key, Desc)
	}
	return q.WithSort(key, Asc)
}

// WithPage returns a copy on page p.
func (q ListQuery) WithPage(p int) ListQuery {
	q.Page = max(p, 1)
	return q
}

// StatusActive reports whether the status filter restricts results.
func (q ListQuery) StatusActive() bool {
	return q.Status != "" && q.Status != StatusAll
}

// Values encodes the query as URL values, omitting defaults.
func (q ListQuery) Values() url.Values {
	v := make(url.Values)
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.StatusActive() {
		v.Set("status", q.Status)
	}
	if q.Filter != "" {
		v.Set("filter", q.Filter)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		v.Set("dir", string(q.Dir))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// URL returns path with the encoded query appended.
func (q ListQuery) URL(path string) string {
	enc := q.Values().Encode()
	if enc == "" {
		return path
	}
	return path + "?" + enc
}
