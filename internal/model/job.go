// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// PositionStatus tells whether a job position accepts applications.
type PositionStatus string

// Position statuses
const (
	PositionActive   PositionStatus = "active"
	PositionInactive PositionStatus = "inactive"
)

// PositionStatuses lists the position statuses in tab order.
var PositionStatuses = []PositionStatus{PositionActive, PositionInactive}

// Label returns the capitalised status.
func (s PositionStatus) Label() string {
	switch s {
	case PositionActive:
		return "Active"
	case PositionInactive:
		return "Inactive"
	}
	return string(s)
}

// Badge returns the badge colour class for the status.
func (s PositionStatus) Badge() string {
	if s == PositionActive {
		return "success"
	}
	return "secondary"
}

// Job types offered on the public jobs page.
var JobTypes = []string{"Full-time", "Part-time", "Internship"}

// JobPosition is an open role at a branch. Description is markdown.
type JobPosition struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	JobType     string         `json:"job_type"`
	BranchName  string         `json:"branch_name"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Status      PositionStatus `json:"status"`
	CreatedAt   Timestamp      `json:"created_at"`
}

// RecordID implements Record.
func (p JobPosition) RecordID() int64 { return p.ID }

// AcceptsApplications reports whether applicants may apply.
func (p JobPosition) AcceptsApplications() bool {
	return p.Status != PositionInactive
}

// ApplicationStatus is the hiring stage of a job application.
type ApplicationStatus string

// Application statuses
const (
	ApplicationPending            ApplicationStatus = "Pending"
	ApplicationUnderReview        ApplicationStatus = "Under Review"
	ApplicationInterviewScheduled ApplicationStatus = "Interview Scheduled"
	ApplicationInterviewed        ApplicationStatus = "Interviewed"
	ApplicationSelected           ApplicationStatus = "Selected"
	ApplicationRejected           ApplicationStatus = "Rejected"
	ApplicationOnHold             ApplicationStatus = "On Hold"
	ApplicationWithdrawn          ApplicationStatus = "Withdrawn"
)

// ApplicationStatuses lists every application status in hiring order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationUnderReview,
	ApplicationInterviewScheduled,
	ApplicationInterviewed,
	ApplicationSelected,
	ApplicationRejected,
	ApplicationOnHold,
	ApplicationWithdrawn,
}

// NormalizeApplicationStatus maps s case-insensitively onto a known status.
// Underscores and hyphens count as spaces. Empty input yields Pending and
// unknown input is returned unchanged.
func NormalizeApplicationStatus(s string) ApplicationStatus {
	key := strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(s)), " ")
	if key == "" {
		return ApplicationPending
	}
	for _, st := range ApplicationStatuses {
		if strings.EqualFold(key, string(st)) {
			return st
		}
	}
	return ApplicationStatus(s)
}

// UnmarshalJSON normalises the decoded status.
func (s *ApplicationStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ApplicationPending
		return nil
	}
	*s = NormalizeApplicationStatus(*raw)
	return nil
}

// Label returns the status text.
func (s ApplicationStatus) Label() string {
	return string(s)
}

// Badge returns the badge colour class for the status.
func (s ApplicationStatus) Badge() string {
	switch s {
	case ApplicationPending:
		return "warning"
	case ApplicationUnderReview, ApplicationInterviewScheduled:
		return "info"
	case ApplicationInterviewed:
		return "primary"
	case ApplicationSelected:
		return "success"
	case ApplicationRejected:
		return "danger"
	}
	return "secondary"
}

// IsValid reports whether s is a known application status.
func (s ApplicationStatus) IsValid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// JobApplication is a candidate's application to a position.
type JobApplication struct {
	ID               int64             `json:"id"`
	JobPositionID    int64             `json:"job_position_id"`
	JobPositionTitle string            `json:"job_position_title"`
	FullName         string            `json:"full_name"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	Address          string            `json:"address"`
	Experience       string            `json:"experience"`
	Skills           string            `json:"skills"`
	CoverLetter      string            `json:"cover_letter"`
	ResumeURL        string            `json:"resume_url"`
	Status           ApplicationStatus `json:"status"`
	CreatedAt        Timestamp         `json:"created_at"`
}

// RecordID implements Record.
func (a JobApplication) RecordID() int64 { return a.ID }
