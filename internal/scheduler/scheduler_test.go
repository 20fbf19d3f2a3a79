// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdd_InvalidJobs(t *testing.T) {
	s := New(testLogger())
	run := func(context.Context) error { return nil }

	tests := []struct {
		name string
		job  Job
	}{
		{"missing name", Job{Schedule: "@every 1m", Run: run}},
		{"missing run", Job{Name: "x", Schedule: "@every 1m"}},
		{"bad schedule", Job{Name: "x", Schedule: "every minute", Run: run}},
		{"six fields", Job{Name: "x", Schedule: "0 * * * * *", Run: run}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Add(tt.job); err == nil {
				t.Error("Add should fail")
			}
		})
	}
	if n := len(s.List()); n != 0 {
		t.Errorf("List() has %d jobs, want 0", n)
	}
}

func TestAdd_DuplicateName(t *testing.T) {
	s := New(testLogger())
	job := Job{Name: "cache-warm", Schedule: "@every 5m", Run: func(context.Context) error { return nil }}

	if err := s.Add(job); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(job); err == nil {
		t.Error("second Add with the same name should fail")
	}
}

func TestList_SortedWithNextRun(t *testing.T) {
	s := New(testLogger())
	s.Start()
	defer s.Stop()

	for _, name := range []string{"limiter-sweep", "cache-warm", "geoip-reload"} {
		if err := s.Add(Job{Name: name, Schedule: "@every 1h", Run: func(context.Context) error { return nil }}); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}

	jobs := s.List()
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs", len(jobs))
	}
	if jobs[0].Name != "cache-warm" || jobs[2].Name != "limiter-sweep" {
		t.Errorf("order = %s, %s, %s", jobs[0].Name, jobs[1].Name, jobs[2].Name)
	}
	if jobs[0].NextRun.IsZero() {
		t.Error("NextRun should be set once the scheduler runs")
	}
}

func TestTriggerNow_RecordsOutcome(t *testing.T) {
	s := New(testLogger())
	var calls atomic.Int32
	boom := errors.New("backend down")

	err := s.Add(Job{Name: "cache-warm", Schedule: "@every 1h", Run: func(ctx context.Context) error {
		calls.Add(1)
		if ctx.Err() != nil {
			t.Error("job context should be live")
		}
		return boom
	}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := s.TriggerNow("cache-warm"); !errors.Is(err, boom) {
		t.Errorf("TriggerNow() = %v, want %v", err, boom)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d", calls.Load())
	}

	info := s.List()[0]
	if info.LastRun.IsZero() || info.LastError != "backend down" {
		t.Errorf("info = %+v", info)
	}

	if err := s.TriggerNow("missing"); err == nil {
		t.Error("TriggerNow on an unknown job should fail")
	}
}

func TestStartStop(t *testing.T) {
	s := New(testLogger())
	s.Start()
	s.Stop()
}
