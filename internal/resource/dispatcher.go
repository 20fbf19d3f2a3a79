// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/metrics"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/validation"
)

// Operation names used in messages and metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpAction = "action"
)

var (
	// ErrInvalid is returned when a draft fails validation. No request is
	// sent and the form holds the field errors.
	ErrInvalid = errors.New("invalid form")
	// ErrUnknownAction is returned for an action the endpoint does not define.
	ErrUnknownAction = errors.New("unknown action")
)

// Messages are the banner texts of a resource. Empty entries fall back to
// generic texts built from the noun.
type Messages struct {
	Noun string // "Branch", "Menu item"

	Created string
	Updated string
	Deleted string

	CreateFailed string
	UpdateFailed string
	DeleteFailed string
	FetchFailed  string

	// Forbidden messages replace the server text on a 403.
	CreateForbidden string
	UpdateForbidden string
	DeleteForbidden string
}

func (m Messages) success(op string) string {
	switch op {
	case OpCreate:
		return or(m.Created, m.Noun+" created successfully!")
	case OpUpdate:
		return or(m.Updated, m.Noun+" updated successfully!")
	case OpDelete:
		return or(m.Deleted, m.Noun+" deleted successfully!")
	}
	return "Saved successfully!"
}

func (m Messages) failure(op string) string {
	switch op {
	case OpCreate:
		return or(m.CreateFailed, "Failed to create "+lower(m.Noun)+". Please try again.")
	case OpUpdate:
		return or(m.UpdateFailed, "Failed to update "+lower(m.Noun)+". Please try again.")
	case OpDelete:
		return or(m.DeleteFailed, "Failed to delete "+lower(m.Noun)+". Please try again.")
	}
	return "Failed to update status. Please try again."
}

func (m Messages) forbidden(op string) string {
	switch op {
	case OpCreate:
		return m.CreateForbidden
	case OpUpdate:
		return m.UpdateForbidden
	case OpDelete:
		return m.DeleteForbidden
	}
	return ""
}

// FetchFailure returns the banner text for a failed list fetch.
func (m Messages) FetchFailure() string {
	return or(m.FetchFailed, "Failed to load "+lower(m.Noun)+" data.")
}

// DispatchOptions configure a Dispatcher.
type DispatchOptions struct {
	Schema     *validation.Schema
	Messages   Messages
	FlashDelay time.Duration
	// Prepare runs after validation and before the request. It may add
	// values to Form.Extra or record field errors.
	Prepare func(ctx context.Context, f *Form) error
	// Transform rewrites uploads before they are sent.
	Transform func(Upload) (Upload, error)
	Logger    *slog.Logger
}

// Dispatcher sends drafts and deletes to the backend and refetches the
// collection after every successful write.
type Dispatcher[T model.Record] struct {
	coll     *Collection[T]
	opts     DispatchOptions
	onChange []func(context.Context)
}

// NewDispatcher creates a dispatcher writing through coll's endpoint.
func NewDispatcher[T model.Record](coll *Collection[T], opts DispatchOptions) *Dispatcher[T] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Dispatcher[T]{coll: coll, opts: opts}
}

// OnChange registers fn to run after every successful write.
func (d *Dispatcher[T]) OnChange(fn func(context.Context)) {
	d.onChange = append(d.onChange, fn)
}

// Create validates f and posts it to the create path.
func (d *Dispatcher[T]) Create(ctx context.Context, f *Form) (Banner, error) {
	f.Mode = validation.Create
	return d.submit(ctx, OpCreate, f, func() (apiclient.Request, error) {
		return d.buildRequest(http.MethodPost, d.coll.endpoint.createPath(), f)
	})
}

// Update validates f and sends it to the item path of id.
func (d *Dispatcher[T]) Update(ctx context.Context, id int64, f *Form) (Banner, error) {
	f.Mode = validation.Update
	f.ID = id
	return d.submit(ctx, OpUpdate, f, func() (apiclient.Request, error) {
		return d.buildRequest(d.coll.endpoint.updateMethod(), d.coll.endpoint.itemPath(id), f)
	})
}

// Delete removes record id.
func (d *Dispatcher[T]) Delete(ctx context.Context, id int64) (Banner, error) {
	req := apiclient.Request{Method: http.MethodDelete, Path: d.coll.endpoint.itemPath(id)}
	return d.send(ctx, OpDelete, req, d.opts.Messages.success(OpDelete))
}

// Action runs the named single-field mutation, such as a status change.
func (d *Dispatcher[T]) Action(ctx context.Context, id int64, name, value string) (Banner, error) {
	action, ok := d.coll.endpoint.Actions[name]
	if !ok {
		return ErrorBanner("Unknown action."), fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if !action.allows(value) {
		return ErrorBanner("Please select a valid status."), fmt.Errorf("%w: %s=%q", ErrInvalid, name, value)
	}

	req := apiclient.Request{Method: action.Method, Path: action.Path(id, value)}
	if action.QueryParam != "" {
		req.Query = url.Values{action.QueryParam: {value}}
	}
	if action.JSONField != "" {
		req.JSON = map[string]string{action.JSONField: value}
	}

	msg := "Status updated successfully to " + value
	if action.Success != nil {
		msg = action.Success(value)
	}
	banner, err := d.send(ctx, OpAction, req, msg)
	if err != nil && action.Failure != "" && !errors.Is(err, apiclient.ErrSessionExpired) {
		banner = ErrorBanner(apiclient.UserMessage(err, action.Failure))
	}
	return banner, err
}

func (d *Dispatcher[T]) submit(ctx context.Context, op string, f *Form, build func() (apiclient.Request, error)) (Banner, error) {
	if !f.Validate() {
		d.record(op, "invalid")
		return Banner{}, ErrInvalid
	}
	if d.opts.Prepare != nil {
		if err := d.opts.Prepare(ctx, f); err != nil {
			d.record(op, "error")
			return ErrorBanner(apiclient.UserMessage(err, d.opts.Messages.failure(op))), err
		}
		if f.Errors.Any() {
			d.record(op, "invalid")
			return Banner{}, ErrInvalid
		}
	}

	req, err := build()
	if err != nil {
		d.record(op, "error")
		return ErrorBanner(d.opts.Messages.failure(op)), err
	}

	f.Submitting = true
	defer func() { f.Submitting = false }()
	banner, err := d.send(ctx, op, req, d.opts.Messages.success(op))
	if err == nil {
		f.Dirty = false
	}
	return banner, err
}

// send issues req, then refetches and notifies on success.
func (d *Dispatcher[T]) send(ctx context.Context, op string, req apiclient.Request, success string) (Banner, error) {
	if err := d.coll.doer.Do(ctx, req, nil); err != nil {
		d.record(op, "error")
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return ErrorBanner("Your session has expired. Please sign in again."), err
		}
		d.opts.Logger.Warn("backend mutation failed",
			"resource", d.resource(), "operation", op, "path", req.Path, "error", err)
		msg := d.opts.Messages.forbidden(op)
		if msg == "" || !apiclient.IsForbidden(err) {
			msg = apiclient.UserMessage(err, d.opts.Messages.failure(op))
		}
		return ErrorBanner(msg), err
	}
	d.record(op, "success")

	if err := d.coll.Refetch(ctx); err != nil {
		d.opts.Logger.Warn("refetch after mutation failed", "resource", d.resource(), "error", err)
	}
	for _, fn := range d.onChange {
		fn(ctx)
	}
	return SuccessBanner(success, d.opts.FlashDelay), nil
}

func (d *Dispatcher[T]) buildRequest(method, path string, f *Form) (apiclient.Request, error) {
	return f.Request(method, path, d.coll.endpoint, d.opts.Transform)
}

func (d *Dispatcher[T]) resource() string {
	return d.opts.Schema.Resource
}

func (d *Dispatcher[T]) record(op, result string) {
	metrics.Mutations.WithLabelValues(d.resource(), op, result).Inc()
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func lower(s string) string {
	if s == "" {
		return "record"
	}
	return strings.ToLower(s)
}
