// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Manager owns the cache backend and the key groups stored in it.
type Manager struct {
	backend Cacher
	kind    Backend

	mu     sync.RWMutex
	groups map[string]struct{}
}

// NewManager wraps backend.
func NewManager(backend Cacher, kind Backend) *Manager {
	return &Manager{backend: backend, kind: kind, groups: make(map[string]struct{})}
}

// Backend returns the underlying cache.
func (m *Manager) Backend() Cacher {
	return m.backend
}

// Kind returns the backend type.
func (m *Manager) Kind() Backend {
	return m.kind
}

// Register records group for invalidation and stats.
func (m *Manager) Register(group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group] = struct{}{}
}

// Groups returns the registered groups in order.
func (m *Manager) Groups() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	groups := make([]string, 0, len(m.groups))
	for g := range m.groups {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}

// Invalidate drops every key of group.
func (m *Manager) Invalidate(ctx context.Context, group string) error {
	if err := m.backend.DeleteByPrefix(ctx, group+":"); err != nil {
		return err
	}
	slog.DebugContext(ctx, "cache group invalidated", "group", group)
	return nil
}

// InvalidateAll drops every registered group.
func (m *Manager) InvalidateAll(ctx context.Context) error {
	for _, g := range m.Groups() {
		if err := m.Invalidate(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns backend statistics when the backend tracks them.
func (m *Manager) Stats() (Stats, bool) {
	sp, ok := m.backend.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
