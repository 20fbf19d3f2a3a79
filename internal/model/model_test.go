// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeApplicationStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ApplicationStatus
	}{
		{"", ApplicationPending},
		{"pending", ApplicationPending},
		{"under review", ApplicationUnderReview},
		{"UNDER_REVIEW", ApplicationUnderReview},
		{"interview-scheduled", ApplicationInterviewScheduled},
		{"  on   hold ", ApplicationOnHold},
		{"Withdrawn", ApplicationWithdrawn},
		{"archived", ApplicationStatus("archived")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeApplicationStatus(tt.in); got != tt.want {
				t.Errorf("NormalizeApplicationStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJobApplicationDecode(t *testing.T) {
	data := `[
		{"id": 1, "full_name": "Asha", "status": "under review", "created_at": "2024-05-01T10:30:00.123456"},
		{"id": 2, "full_name": "Ravi", "status": null, "created_at": null}
	]`

	var apps []JobApplication
	if err := json.Unmarshal([]byte(data), &apps); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if apps[0].Status != ApplicationUnderReview {
		t.Errorf("apps[0].Status = %q", apps[0].Status)
	}
	if apps[0].CreatedAt.Year() != 2024 || apps[0].CreatedAt.Month() != time.May {
		t.Errorf("apps[0].CreatedAt = %v", apps[0].CreatedAt)
	}
	if apps[1].Status != ApplicationPending {
		t.Errorf("apps[1].Status = %q, want Pending", apps[1].Status)
	}
	if !apps[1].CreatedAt.IsZero() {
		t.Errorf("apps[1].CreatedAt = %v, want zero", apps[1].CreatedAt)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2024-01-02T03:04:05Z", false},
		{"2024-01-02T03:04:05+05:30", false},
		{"2024-01-02T03:04:05", false},
		{"2024-01-02 03:04:05", false},
		{"2024-01-02", false},
		{"", false},
		{"yesterday", true},
	}
	for _, tt := range tests {
		_, err := ParseTimestamp(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestTimestampMarshal(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	if err != nil || string(data) != "null" {
		t.Errorf("zero Timestamp marshals to %s, %v", data, err)
	}
}

func TestBranchStatusLabelAndBadge(t *testing.T) {
	tests := []struct {
		status BranchStatus
		label  string
		badge  string
	}{
		{BranchOpen, "Open", "success"},
		{BranchClosed, "Closed", "danger"},
		{BranchUnderMaintenance, "Under Maintenance", "warning"},
		{"unknown", "unknown", "secondary"},
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.label {
			t.Errorf("%q.Label() = %q, want %q", tt.status, got, tt.label)
		}
		if got := tt.status.Badge(); got != tt.badge {
			t.Errorf("%q.Badge() = %q, want %q", tt.status, got, tt.badge)
		}
	}
}

func TestCountBranches(t *testing.T) {
	stats := CountBranches([]Branch{
		{BranchStatus: BranchOpen},
		{BranchStatus: BranchOpen},
		{BranchStatus: BranchClosed},
		{BranchStatus: BranchUnderMaintenance},
	})
	want := BranchStats{Total: 4, Open: 2, Closed: 1, UnderMaintenance: 1}
	if stats != want {
		t.Errorf("CountBranches() = %+v, want %+v", stats, want)
	}
}

func TestGroupMenu(t *testing.T) {
	items := []MenuItem{
		{ID: 1, CategoryName: "Starters"},
		{ID: 2, CategoryName: "Mains"},
		{ID: 3, CategoryName: "Starters"},
	}
	sections := GroupMenu(items)
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(sections))
	}
	if sections[0].Category != "Starters" || len(sections[0].Items) != 2 {
		t.Errorf("sections[0] = %+v", sections[0])
	}
	if sections[1].Category != "Mains" || sections[1].Items[0].ID != 2 {
		t.Errorf("sections[1] = %+v", sections[1])
	}
}

func TestApprovedTestimonials(t *testing.T) {
	all := []Testimonial{
		{ID: 1, Status: StatusApproved},
		{ID: 2, Status: StatusPending},
		{ID: 3, Status: StatusRejected},
		{ID: 4, Status: StatusApproved},
	}
	got := ApprovedTestimonials(all)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 {
		t.Errorf("ApprovedTestimonials() = %+v", got)
	}
}

func TestTestimonialStars(t *testing.T) {
	if got := (Testimonial{Rating: 9}).Stars(); got != MaxRating {
		t.Errorf("Stars() = %d, want %d", got, MaxRating)
	}
	if got := (Testimonial{Rating: -1}).Stars(); got != 0 {
		t.Errorf("Stars() = %d, want 0", got)
	}
}

func TestJobPositionAcceptsApplications(t *testing.T) {
	if (JobPosition{Status: PositionInactive}).AcceptsApplications() {
		t.Error("inactive position should not accept applications")
	}
	if !(JobPosition{Status: PositionActive}).AcceptsApplications() {
		t.Error("active position should accept applications")
	}
}

func TestGalleryHelpers(t *testing.T) {
	cats := []GalleryCategory{{ID: 1, Name: "Interior"}, {ID: 2, Name: "Food"}}
	c, ok := CategoryByName(cats, "Food")
	if !ok || c.ID != 2 {
		t.Errorf("CategoryByName(Food) = %+v, %v", c, ok)
	}
	if _, ok := CategoryByName(cats, "Missing"); ok {
		t.Error("CategoryByName(Missing) should not be found")
	}

	images := []GalleryImage{{ID: 1, CategoryID: 2}, {ID: 2, CategoryID: 1}, {ID: 3, CategoryID: 2}}
	if got := ImagesInCategory(images, 2); len(got) != 2 {
		t.Errorf("ImagesInCategory(2) = %+v", got)
	}
}

func TestLinksForBranch(t *testing.T) {
	links := []OnlineOrderLink{{ID: 1, BranchID: 7}, {ID: 2, BranchID: 8}}
	if got := LinksForBranch(links, 7); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("LinksForBranch(7) = %+v", got)
	}
}
