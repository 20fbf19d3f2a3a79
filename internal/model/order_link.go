// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// OnlineOrderLink points a branch to a delivery platform.
type OnlineOrderLink struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Logo     string `json:"logo"`
	BranchID int64  `json:"branch_id"`
}

// RecordID implements Record.
func (l OnlineOrderLink) RecordID() int64 { return l.ID }

// LinksForBranch returns the order links of one branch.
func LinksForBranch(links []OnlineOrderLink, branchID int64) []OnlineOrderLink {
	out := make([]OnlineOrderLink, 0)
	for _, l := range links {
		if l.BranchID == branchID {
			out = append(out, l)
		}
	}
	return out
}
