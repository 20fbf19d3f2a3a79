// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"

	"github.com/olegiv/restro-web/internal/resource"
)

// AdminPagination holds pagination data for admin templates.
type AdminPagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
	FirstURL    string
	LastURL     string
	Pages       []AdminPaginationPage
}

// AdminPaginationPage represents a single page link in admin pagination.
type AdminPaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// paginationWindow is the number of numbered links shown around the current page.
const paginationWindow = 5

// BuildAdminPagination creates pagination data for admin templates. Links keep
// every other parameter of q (search, status tab, filter, sort).
func BuildAdminPagination(currentPage, totalItems, perPage int, base string, q resource.ListQuery) AdminPagination {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	pageURL := func(n int) string { return q.WithPage(n).URL(base) }

	p := AdminPagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		FirstURL:    pageURL(1),
		LastURL:     pageURL(totalPages),
	}
	if p.HasPrev {
		p.PrevURL = pageURL(currentPage - 1)
	}
	if p.HasNext {
		p.NextURL = pageURL(currentPage + 1)
	}

	half := paginationWindow / 2
	start, end := currentPage-half, currentPage+half
	if start < 1 {
		start, end = 1, paginationWindow
	}
	if end > totalPages {
		end = totalPages
		start = max(end-paginationWindow+1, 1)
	}

	if start > 1 {
		p.Pages = append(p.Pages, AdminPaginationPage{Number: 1, URL: pageURL(1)})
		if start > 2 {
			p.Pages = append(p.Pages, AdminPaginationPage{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, AdminPaginationPage{
			Number:    i,
			URL:       pageURL(i),
			IsCurrent: i == currentPage,
		})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, AdminPaginationPage{IsEllipsis: true})
		}
		p.Pages = append(p.Pages, AdminPaginationPage{Number: totalPages, URL: pageURL(totalPages)})
	}
	return p
}

// ShouldShow returns true if pagination should be displayed (more than 1 page).
func (p AdminPagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// PageRange describes the rows shown on the current page, e.g. "11-20".
func (p AdminPagination) PageRange() string {
	if p.TotalItems == 0 {
		return "0"
	}
	start := (p.CurrentPage-1)*p.PerPage + 1
	end := min(p.CurrentPage*p.PerPage, p.TotalItems)
	return fmt.Sprintf("%d-%d", start, end)
}
