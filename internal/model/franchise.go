// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// RequestStatus is the review state shared by franchise requests and testimonials.
type RequestStatus string

// Review statuses
const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// RequestStatuses lists the review statuses in tab order.
var RequestStatuses = []RequestStatus{StatusPending, StatusApproved, StatusRejected}

// Label returns the capitalised status.
func (s RequestStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Badge returns the badge colour class for the status.
func (s RequestStatus) Badge() string {
	switch s {
	case StatusPending:
		return "warning"
	case StatusApproved:
		return "success"
	case StatusRejected:
		return "danger"
	}
	return "secondary"
}

// IsValid reports whether s is a known review status.
func (s RequestStatus) IsValid() bool {
	for _, v := range RequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// FranchiseRequest is an inquiry from a prospective franchisee.
type FranchiseRequest struct {
	ID                       int64         `json:"id"`
	UserName                 string        `json:"user_name"`
	UserEmail                string        `json:"user_email"`
	UserPhone                string        `json:"user_phone"`
	RequestedCity            string        `json:"requested_city"`
	RequestedState           string        `json:"requested_state"`
	RequestedCountry         string        `json:"requested_country"`
	InvestmentBudget         string        `json:"investment_budget"`
	ExperienceInFoodBusiness string        `json:"experience_in_food_business"`
	AdditionalDetails        string        `json:"additional_details"`
	RequestStatus            RequestStatus `json:"request_status"`
	CreatedAt                Timestamp     `json:"created_at"`
	UpdatedAt                Timestamp     `json:"updated_at"`
}

// RecordID implements Record.
func (f FranchiseRequest) RecordID() int64 { return f.ID }
