// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dish struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTypedForTest(t *testing.T) (*TypedCache[[]dish], *MemoryCache) {
	t.Helper()
	mem := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	return NewTypedCache[[]dish](mem, "menu", time.Minute), mem
}

func TestTypedCache_SetGet(t *testing.T) {
	tc, mem := newTypedForTest(t)
	ctx := context.Background()

	_, ok := tc.Get(ctx, "all")
	assert.False(t, ok)

	want := []dish{{ID: 1, Name: "Misal Pav", Price: 120}}
	require.NoError(t, tc.Set(ctx, "all", want))

	got, ok := tc.Get(ctx, "all")
	require.True(t, ok)
	assert.Equal(t, want, got)

	raw, err := mem.Get(ctx, "menu:all")
	require.NoError(t, err, "values live under the group prefix")
	assert.JSONEq(t, `[{"id":1,"name":"Misal Pav","price":120}]`, string(raw))

	require.NoError(t, tc.Delete(ctx, "all"))
	_, ok = tc.Get(ctx, "all")
	assert.False(t, ok)
}

func TestTypedCache_UndecodableEntry(t *testing.T) {
	tc, mem := newTypedForTest(t)
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, "menu:all", []byte("not json"), 0))
	_, ok := tc.Get(ctx, "all")
	assert.False(t, ok)
}

func TestTypedCache_GetOrSet(t *testing.T) {
	tc, _ := newTypedForTest(t)
	ctx := context.Background()

	var calls atomic.Int32
	load := func(context.Context) ([]dish, error) {
		calls.Add(1)
		return []dish{{ID: 2, Name: "Thali"}}, nil
	}

	first, err := tc.GetOrSet(ctx, "all", load)
	require.NoError(t, err)
	second, err := tc.GetOrSet(ctx, "all", load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "second call is served from cache")
}

func TestTypedCache_GetOrSetErrorNotCached(t *testing.T) {
	tc, _ := newTypedForTest(t)
	ctx := context.Background()
	boom := errors.New("backend down")

	_, err := tc.GetOrSet(ctx, "all", func(context.Context) ([]dish, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	_, ok := tc.Get(ctx, "all")
	assert.False(t, ok)

	got, err := tc.GetOrSet(ctx, "all", func(context.Context) ([]dish, error) {
		return []dish{{ID: 3}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTypedCache_GetOrSetSharesLoad(t *testing.T) {
	tc, _ := newTypedForTest(t)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]dish, error) {
		calls.Add(1)
		<-release
		return []dish{{ID: 4}}, nil
	}

	var wg sync.WaitGroup
	results := make([][]dish, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = tc.GetOrSet(ctx, "all", load)
		}()
	}
	// Give the goroutines a chance to join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
	for _, r := range results {
		assert.Len(t, r, 1)
	}
}

func TestTypedCache_GetOrSetIgnoresCallerCancel(t *testing.T) {
	tc, _ := newTypedForTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := tc.GetOrSet(ctx, "all", func(lctx context.Context) ([]dish, error) {
		if lctx.Err() != nil {
			return nil, lctx.Err()
		}
		return []dish{{ID: 5}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTypedCache_Group(t *testing.T) {
	tc, _ := newTypedForTest(t)
	assert.Equal(t, "menu", tc.Group())
}
