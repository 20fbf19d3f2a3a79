// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/resource"
	"github.com/olegiv/restro-web/internal/validation"
)

// Backend endpoints accepting public submissions.
const (
	PathTestimonialSubmit = "/testimonial/"
	PathFranchiseSubmit   = "/franchise/requests/"
	PathApplicationSubmit = "/job-applications/"
)

// ErrPositionClosed is returned when applying to an inactive position.
var ErrPositionClosed = errors.New("position is not accepting applications")

// Public form results.
const (
	MsgTestimonialSent    = "Your message has been sent successfully!"
	MsgTestimonialFailed  = "Failed to send message. Please try again."
	MsgFranchiseSent      = "Thank you! Your franchise request has been submitted."
	MsgFranchiseFailed    = "Failed to submit request. Please try again."
	MsgApplicationSent    = "Application submitted successfully!"
	MsgApplicationFailed  = "Failed to submit application. Please try again."
	MsgApplicationsClosed = "This position is no longer accepting applications."
)

// Inquiries posts the public site's forms to the backend.
type Inquiries struct {
	api       apiclient.Doer
	transform func(resource.Upload) (resource.Upload, error)
}

// NewInquiries creates the public form sender. transform, when set,
// normalises uploads before they are sent.
func NewInquiries(api apiclient.Doer, transform func(resource.Upload) (resource.Upload, error)) *Inquiries {
	return &Inquiries{api: api, transform: transform}
}

// SubmitTestimonial sends the contact form. The backend queues the
// testimonial for moderation.
func (s *Inquiries) SubmitTestimonial(ctx context.Context, f *resource.Form) (resource.Banner, error) {
	return s.submit(ctx, f, PathTestimonialSubmit, MsgTestimonialSent, MsgTestimonialFailed)
}

// SubmitFranchise sends a franchise inquiry as JSON with a pending status.
func (s *Inquiries) SubmitFranchise(ctx context.Context, f *resource.Form) (resource.Banner, error) {
	f.Extra["request_status"] = string(model.StatusPending)
	return s.submit(ctx, f, PathFranchiseSubmit, MsgFranchiseSent, MsgFranchiseFailed)
}

// SubmitApplication sends a job application for pos.
func (s *Inquiries) SubmitApplication(ctx context.Context, pos model.JobPosition, f *resource.Form) (resource.Banner, error) {
	if !pos.AcceptsApplications() {
		return resource.ErrorBanner(MsgApplicationsClosed), ErrPositionClosed
	}
	f.Extra["job_position_id"] = pos.ID
	f.Extra["job_position_title"] = pos.Title
	return s.submit(ctx, f, PathApplicationSubmit, MsgApplicationSent, MsgApplicationFailed)
}

func (s *Inquiries) submit(ctx context.Context, f *resource.Form, path, success, failure string) (resource.Banner, error) {
	f.Mode = validation.Create
	if !f.Validate() {
		return resource.Banner{}, resource.ErrInvalid
	}
	req, err := f.Request(http.MethodPost, path, resource.Endpoint{}, s.transform)
	if err != nil {
		slog.WarnContext(ctx, "public form encoding failed", "form", f.Schema.Resource, "error", err)
		return resource.ErrorBanner(failure), err
	}

	f.Submitting = true
	defer func() { f.Submitting = false }()
	if err := s.api.Do(ctx, req, nil); err != nil {
		slog.WarnContext(ctx, "public form submission failed", "form", f.Schema.Resource, "error", err)
		return resource.ErrorBanner(apiclient.UserMessage(err, failure)), err
	}

	slog.InfoContext(ctx, "public form submitted", "form", f.Schema.Resource)
	f.Dirty = false
	return resource.SuccessBanner(success, 0), nil
}
