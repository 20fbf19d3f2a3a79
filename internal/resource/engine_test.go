// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/restro-web/internal/model"
)

func ids(items []model.Branch) []int64 {
	out := make([]int64, len(items))
	for i, b := range items {
		out[i] = b.ID
	}
	return out
}

func TestApply_EmptyQueryReturnsEverything(t *testing.T) {
	p := Apply(testBranches, ListQuery{Status: StatusAll}, branchList)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(p.Items))
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 5, p.Filtered)
	assert.Equal(t, 1, p.TotalPages)
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	p := Apply(testBranches, ListQuery{Search: "nASHik"}, branchList)
	assert.Equal(t, []int64{1, 4}, ids(p.Items))
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 2, p.Filtered)
}

func TestApply_StatusTabHidesOtherStatuses(t *testing.T) {
	p := Apply(testBranches, ListQuery{Status: string(model.BranchClosed)}, branchList)
	assert.Equal(t, []int64{2, 5}, ids(p.Items))
	assert.NotContains(t, ids(p.Items), int64(1), "an open branch must not appear under the closed tab")

	// Counts cover every status so tab badges stay stable.
	assert.Equal(t, 2, p.StatusCounts["open"])
	assert.Equal(t, 2, p.StatusCounts["closed"])
	assert.Equal(t, 1, p.StatusCounts["under_maintenance"])
}

func TestApply_StatusCountsFollowSearch(t *testing.T) {
	p := Apply(testBranches, ListQuery{Search: "mumbai", Status: "open"}, branchList)
	assert.Empty(t, p.Items)
	assert.Equal(t, 2, p.StatusCounts["closed"])
	assert.Zero(t, p.StatusCounts["open"])
}

func TestApply_SortStableAndDirections(t *testing.T) {
	asc := Apply(testBranches, ListQuery{Sort: "city", Dir: Asc}, branchList)
	// Ties keep source order: Harbour(2) before Airport(5), Campus(1) before Riverside(4).
	assert.Equal(t, []int64{2, 5, 1, 4, 3}, ids(asc.Items))

	desc := Apply(testBranches, ListQuery{Sort: "capacity", Dir: Desc}, branchList)
	assert.Equal(t, []int64{2, 4, 1, 5, 3}, ids(desc.Items))
}

func TestApply_UnknownSortKeepsSourceOrder(t *testing.T) {
	p := Apply(testBranches, ListQuery{Sort: "nope", Dir: Desc}, branchList)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(p.Items))
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	src := append([]model.Branch(nil), testBranches...)
	Apply(src, ListQuery{Sort: "name", Dir: Desc}, branchList)
	assert.Equal(t, testBranches, src)
}

func TestApply_PagesConcatenateToFilteredSet(t *testing.T) {
	for size := 1; size <= 6; size++ {
		q := ListQuery{Sort: "name", Dir: Asc, PageSize: size, Page: 1}
		first := Apply(testBranches, q, branchList)

		var all []int64
		for page := 1; page <= first.TotalPages; page++ {
			p := Apply(testBranches, q.WithPage(page), branchList)
			require.LessOrEqual(t, len(p.Items), size)
			all = append(all, ids(p.Items)...)
		}
		full := Apply(testBranches, ListQuery{Sort: "name", Dir: Asc}, branchList)
		assert.Equal(t, ids(full.Items), all, "page size %d", size)
	}
}

func TestApply_PageClamped(t *testing.T) {
	p := Apply(testBranches, ListQuery{Page: 9, PageSize: 2}, branchList)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []int64{5}, ids(p.Items))
	assert.Equal(t, 4, p.Offset())

	empty := Apply([]model.Branch{}, ListQuery{Page: 4, PageSize: 10}, branchList)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestParseListQuery(t *testing.T) {
	def := ListQuery{Sort: "created_at", Dir: Desc, PageSize: 10, Status: StatusAll}

	q := ParseListQuery(url.Values{}, def)
	assert.Equal(t, "created_at", q.Sort)
	assert.Equal(t, Desc, q.Dir)
	assert.Equal(t, 1, q.Page)

	q = ParseListQuery(url.Values{"q": {" paneer "}, "sort": {"name"}, "page": {"3"}, "status": {"open"}}, def)
	assert.Equal(t, "paneer", q.Search)
	assert.Equal(t, "name", q.Sort)
	assert.Equal(t, Asc, q.Dir)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, "open", q.Status)

	q = ParseListQuery(url.Values{"page": {"-2"}, "dir": {"sideways"}}, def)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, Desc, q.Dir)
}

func TestListQuery_ChangesResetPage(t *testing.T) {
	q := ListQuery{Page: 4}
	assert.Equal(t, 1, q.WithSearch("x").Page)
	assert.Equal(t, 1, q.WithStatus("open").Page)
	assert.Equal(t, 1, q.WithFilter("special").Page)
	assert.Equal(t, 1, q.WithSort("name", Asc).Page)
	assert.Equal(t, 4, q.Page, "receiver is a copy")
}

func TestListQuery_ToggleSort(t *testing.T) {
	q := ListQuery{}.ToggleSort("name")
	assert.Equal(t, Asc, q.Dir)
	q = q.ToggleSort("name")
	assert.Equal(t, Desc, q.Dir)
	q = q.ToggleSort("name")
	assert.Equal(t, Asc, q.Dir)
	q = q.ToggleSort("city")
	assert.Equal(t, "city", q.Sort)
	assert.Equal(t, Asc, q.Dir)
}

func TestListQuery_URL(t *testing.T) {
	assert.Equal(t, "/admin/branches", ListQuery{Page: 1, Status: StatusAll}.URL("/admin/branches"))

	q := ListQuery{Search: "old town", Status: "open", Sort: "name", Dir: Desc, Page: 2}
	assert.Equal(t, "/admin/branches?dir=desc&page=2&q=old+town&sort=name&status=open", q.URL("/admin/branches"))
}
