// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package resource

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/model"
)

// Collection holds the last successful fetch of a resource. Every fetch
// replaces the whole slice; a failed fetch keeps the previous items.
type Collection[T model.Record] struct {
	doer           apiclient.Doer
	endpoint       Endpoint
	failureMessage string

	mu        sync.RWMutex
	items     []T
	loading   bool
	errMsg    string
	fetchedAt time.Time
	filter    string
}

// NewCollection creates an empty collection.
func NewCollection[T model.Record](doer apiclient.Doer, endpoint Endpoint, failureMessage string) *Collection[T] {
	return &Collection[T]{doer: doer, endpoint: endpoint, failureMessage: failureMessage}
}

// Doer returns the backend the collection reads from.
func (c *Collection[T]) Doer() apiclient.Doer {
	return c.doer
}

// Fetch loads the collection, using the endpoint's filter path when filter
// is not empty. The returned error is the raw backend error; Err holds the
// message to show.
func (c *Collection[T]) Fetch(ctx context.Context, filter string) error {
	c.mu.Lock()
	c.loading = true
	c.filter = filter
	c.mu.Unlock()

	var items []T
	err := c.doer.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: c.endpoint.listPath(filter)}, &items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.errMsg = apiclient.UserMessage(err, c.failureMessage)
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.errMsg = ""
	c.fetchedAt = time.Now()
	return nil
}

// Refetch repeats the last fetch.
func (c *Collection[T]) Refetch(ctx context.Context) error {
	c.mu.RLock()
	filter := c.filter
	c.mu.RUnlock()
	return c.Fetch(ctx, filter)
}

// Items returns the last fetched records.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// Loading reports whether a fetch is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the user-visible message of the last failed fetch.
func (c *Collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

// FetchedAt returns when the items were last replaced.
func (c *Collection[T]) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Find returns the record with id from the last fetch.
func (c *Collection[T]) Find(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
