// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resource implements the generic list/form/mutation cycle shared by
// every back-office screen: fetch a collection, filter, sort and page it,
// validate a draft and write it back.
package resource

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/validation"
)

// ErrLocked is returned when a record may not be edited or deleted.
var ErrLocked = errors.New("record is locked")

// Config describes one resource.
type Config[T model.Record] struct {
	Endpoint Endpoint
	Form     *validation.Schema
	List     Schema[T]
	Messages Messages
	// DefaultQuery is applied to list requests without parameters.
	DefaultQuery ListQuery
	// Locked reports records that cannot be edited or deleted.
	Locked       func(T) bool
	LockedReason string

	Prepare   func(ctx context.Context, f *Form) error
	Transform func(Upload) (Upload, error)
}

// Controller binds a collection, its list schema and its dispatcher for
// one request.
type Controller[T model.Record] struct {
	cfg        Config[T]
	Collection *Collection[T]
	Dispatcher *Dispatcher[T]
}

// NewController creates a controller that talks to the backend through doer.
func NewController[T model.Record](doer apiclient.Doer, cfg Config[T], flashDelay time.Duration, logger *slog.Logger) *Controller[T] {
	coll := NewCollection[T](doer, cfg.Endpoint, cfg.Messages.FetchFailure())
	disp := NewDispatcher(coll, DispatchOptions{
		Schema:     cfg.Form,
		Messages:   cfg.Messages,
		FlashDelay: flashDelay,
		Prepare:    cfg.Prepare,
		Transform:  cfg.Transform,
		Logger:     logger,
	})
	return &Controller[T]{cfg: cfg, Collection: coll, Dispatcher: disp}
}

// Config returns the resource description.
func (c *Controller[T]) Config() Config[T] {
	return c.cfg
}

// List fetches the collection and applies q. On a failed fetch the page is
// built from the previous items and the error is returned.
func (c *Controller[T]) List(ctx context.Context, q ListQuery) (Page[T], error) {
	err := c.Collection.Fetch(ctx, q.Filter)
	return Apply(c.Collection.Items(), q, c.cfg.List), err
}

// Load fetches the collection and returns record id.
func (c *Controller[T]) Load(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := c.Collection.Fetch(ctx, ""); err != nil {
		return zero, err
	}
	rec, ok := c.Collection.Find(id)
	if !ok {
		return zero, &apiclient.APIError{Status: 404, Message: c.cfg.Messages.Noun + " not found"}
	}
	return rec, nil
}

// NewForm returns an empty create draft.
func (c *Controller[T]) NewForm() *Form {
	return NewForm(c.cfg.Form)
}

// EditForm returns an edit draft for rec.
func (c *Controller[T]) EditForm(rec T) *Form {
	return FormFrom(c.cfg.Form, rec.RecordID(), rec)
}

// IsLocked reports whether rec is protected from edits.
func (c *Controller[T]) IsLocked(rec T) bool {
	return c.cfg.Locked != nil && c.cfg.Locked(rec)
}

// Create submits a new record.
func (c *Controller[T]) Create(ctx context.Context, f *Form) (Banner, error) {
	return c.Dispatcher.Create(ctx, f)
}

// Update submits changes to rec.
func (c *Controller[T]) Update(ctx context.Context, rec T, f *Form) (Banner, error) {
	if c.IsLocked(rec) {
		return ErrorBanner(c.lockedReason()), ErrLocked
	}
	return c.Dispatcher.Update(ctx, rec.RecordID(), f)
}

// Delete removes rec.
func (c *Controller[T]) Delete(ctx context.Context, rec T) (Banner, error) {
	if c.IsLocked(rec) {
		return ErrorBanner(c.lockedReason()), ErrLocked
	}
	return c.Dispatcher.Delete(ctx, rec.RecordID())
}

// Action runs a named status transition on record id.
func (c *Controller[T]) Action(ctx context.Context, id int64, name, value string) (Banner, error) {
	return c.Dispatcher.Action(ctx, id, name, value)
}

// OnChange registers fn to run after every successful write.
func (c *Controller[T]) OnChange(fn func(context.Context)) {
	c.Dispatcher.OnChange(fn)
}

func (c *Controller[T]) lockedReason() string {
	return or(c.cfg.LockedReason, "This record cannot be modified.")
}
