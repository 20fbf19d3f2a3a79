// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background maintenance jobs: public cache
// warm-up, GeoIP database reloads and limiter sweeps.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 2 * time.Minute

// Job is a named task run on a cron schedule.
type Job struct {
	Name        string
	Description string
	// Schedule is a five-field cron expression or a descriptor such as
	// "@every 5m".
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs with robfig/cron. Overlapping runs of the same job
// are skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
	*Registry
}

// New creates a stopped scheduler.
func New(logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{
		cron:     c,
		logger:   logger,
		timeout:  DefaultJobTimeout,
		Registry: newRegistry(c, logger),
	}
}

// Add schedules job.
func (s *Scheduler) Add(job Job) error {
	return s.register(job, s.wrap(job))
}

// wrap returns the cron function for job: it runs with a timeout, logs the
// outcome and records it in the registry.
func (s *Scheduler) wrap(job Job) func() {
	return func() {
		if err := s.runOnce(job); err != nil {
			s.logger.Error("scheduled job failed", "job", job.Name, "error", err)
		}
	}
}

func (s *Scheduler) runOnce(job Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	s.record(job.Name, start, err)
	s.logger.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start), "ok", err == nil)
	return err
}

// Start begins running the scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs the named job immediately in the caller's goroutine.
func (s *Scheduler) TriggerNow(name string) error {
	job, err := s.job(name)
	if err != nil {
		return err
	}
	s.logger.Info("manually triggering job", "job", name)
	return s.runOnce(job)
}
