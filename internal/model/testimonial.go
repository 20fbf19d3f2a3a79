// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Rating bounds for testimonials.
const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is customer feedback submitted through the contact form.
type Testimonial struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Description string        `json:"description"`
	Rating      int           `json:"rating"`
	Image       string        `json:"image,omitempty"`
	Status      RequestStatus `json:"status"`
	CreatedAt   Timestamp     `json:"created_at"`
}

// RecordID implements Record.
func (t Testimonial) RecordID() int64 { return t.ID }

// Stars returns the rating clamped to the valid range, for star rendering.
func (t Testimonial) Stars() int {
	return max(0, min(t.Rating, MaxRating))
}

// ApprovedTestimonials returns only the testimonials visible on the public site.
func ApprovedTestimonials(all []Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(all))
	for _, t := range all {
		if t.Status == StatusApproved {
			out = append(out, t)
		}
	}
	return out
}
