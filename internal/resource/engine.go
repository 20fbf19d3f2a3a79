// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Schema describes how a list of T is searched, filtered and sorted.
type Schema[T any] struct {
	// Search returns the stringified fields matched by the search term.
	Search func(T) []string
	// Status returns the record status; nil disables status filtering.
	Status func(T) string
	// Sorts maps a sort key to a three-way comparator.
	Sorts map[string]func(a, b T) int
}

// Page is the visible slice of a filtered, sorted collection.
type Page[T any] struct {
	Items        []T
	Total        int // size of the fetched collection
	Filtered     int // size after search and status filtering
	Page         int
	PageSize     int
	TotalPages   int
	StatusCounts map[string]int // per status, after search, for tab badges
	Query        ListQuery
}

// Offset returns the index of the first item on the page.
func (p Page[T]) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Apply filters, sorts and paginates items. It never modifies items.
// Ties keep source order and an unknown sort key leaves source order.
func Apply[T any](items []T, q ListQuery, s Schema[T]) Page[T] {
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = len(items)
		if pageSize == 0 {
			pageSize = 1
		}
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]T, 0, len(items))
	counts := make(map[string]int)
	for _, it := range items {
		if term != "" && !matches(it, term, s.Search) {
			continue
		}
		if s.Status != nil {
			st := s.Status(it)
			counts[st]++
			if q.StatusActive() && st != q.Status {
				continue
			}
		}
		matched = append(matched, it)
	}

	if compare, ok := s.Sorts[q.Sort]; ok && q.Sort != "" {
		if q.Dir == Desc {
			slices.SortStableFunc(matched, func(a, b T) int { return compare(b, a) })
		} else {
			slices.SortStableFunc(matched, compare)
		}
	}

	totalPages := max((len(matched)+pageSize-1)/pageSize, 1)
	page := min(max(q.Page, 1), totalPages)
	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))

	q.Page = page
	return Page[T]{
		Items:        matched[start:end:end],
		Total:        len(items),
		Filtered:     len(matched),
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		StatusCounts: counts,
		Query:        q,
	}
}

func matches[T any](it T, term string, fields func(T) []string) bool {
	if fields == nil {
		return true
	}
	for _, f := range fields(it) {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// CompareText orders strings case-insensitively.
func CompareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareTime orders times, zero times first.
func CompareTime(a, b time.Time) int {
	return a.Compare(b)
}

// By builds a comparator from a key function.
func By[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ByText builds a case-insensitive comparator from a string key.
func ByText[T any](key func(T) string) func(a, b T) int {
	return func(a, b T) int { return CompareText(key(a), key(b)) }
}

// ByTime builds a comparator from a time key.
func ByTime[T any](key func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return CompareTime(key(a), key(b)) }
}
