// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// BranchStatus is the operating state of a branch.
type BranchStatus string

// Branch statuses
const (
	BranchOpen             BranchStatus = "open"
	BranchClosed           BranchStatus = "closed"
	BranchUnderMaintenance BranchStatus = "under_maintenance"
)

// BranchStatuses lists the branch statuses in tab order.
var BranchStatuses = []BranchStatus{BranchOpen, BranchClosed, BranchUnderMaintenance}

// Label returns the human readable status.
func (s BranchStatus) Label() string {
	switch s {
	case BranchOpen:
		return "Open"
	case BranchClosed:
		return "Closed"
	case BranchUnderMaintenance:
		return "Under Maintenance"
	}
	return string(s)
}

// Badge returns the badge colour class for the status.
func (s BranchStatus) Badge() string {
	switch s {
	case BranchOpen:
		return "success"
	case BranchClosed:
		return "danger"
	case BranchUnderMaintenance:
		return "warning"
	}
	return "secondary"
}

// Branch is a restaurant location.
type Branch struct {
	ID                  int64        `json:"id"`
	Name                string       `json:"name"`
	Latitude            float64      `json:"latitude"`
	Longitude           float64      `json:"longitude"`
	Address             string       `json:"address"`
	City                string       `json:"city"`
	State               string       `json:"state"`
	Country             string       `json:"country"`
	Zipcode             string       `json:"zipcode"`
	PhoneNumber         string       `json:"phone_number"`
	Email               string       `json:"email"`
	OpeningHours        string       `json:"opening_hours"`
	ManagerName         string       `json:"manager_name"`
	BranchOpeningDate   string       `json:"branch_opening_date"`
	BranchStatus        BranchStatus `json:"branch_status"`
	SeatingCapacity     int          `json:"seating_capacity"`
	ParkingAvailability bool         `json:"parking_availability"`
	WifiAvailability    bool         `json:"wifi_availability"`
	ImageURL            string       `json:"image_url,omitempty"`
}

// RecordID implements Record.
func (b Branch) RecordID() int64 { return b.ID }

// HasLocation reports whether the branch has usable coordinates.
func (b Branch) HasLocation() bool {
	return b.Latitude != 0 || b.Longitude != 0
}

// BranchStats summarises branches by status.
type BranchStats struct {
	Total            int
	Open             int
	Closed           int
	UnderMaintenance int
}

// CountBranches computes BranchStats over branches.
func CountBranches(branches []Branch) BranchStats {
	stats := BranchStats{Total: len(branches)}
	for _, b := range branches {
		switch b.BranchStatus {
		case BranchOpen:
			stats.Open++
		case BranchClosed:
			stats.Closed++
		case BranchUnderMaintenance:
			stats.UnderMaintenance++
		}
	}
	return stats
}
