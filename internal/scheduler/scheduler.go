// Package scheduler runs the periodic housekeeping jobs of the platform.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SessionCompleter completes accepted sessions whose slot has passed
type SessionCompleter interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

// JobCloser closes job postings past their deadline
type JobCloser interface {
	CloseExpired(ctx context.Context) (int64, error)
}

// WebinarCompleter marks webinars that already took place as completed
type WebinarCompleter interface {
	CompletePast(ctx context.Context) (int64, error)
}

// Scheduler manages background tasks
type Scheduler struct {
	sessions SessionCompleter
	jobs     JobCloser
	webinars WebinarCompleter
	interval time.Duration
	logger   zerolog.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates a new scheduler ticking every interval
func NewScheduler(sessions SessionCompleter, jobs JobCloser, webinars WebinarCompleter, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		sessions: sessions,
		jobs:     jobs,
		webinars: webinars,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start runs the tasks once immediately and then on every tick until ctx ends or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("Starting background scheduler")
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop stops the background tasks and waits for a running pass to finish
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info().Msg("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopChan:
			s.logger.Info().Msg("Scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info().Msg("Scheduler cancelled")
			return
		}
	}
}

// RunOnce performs a single housekeeping pass; a failing task does not stop the others
func (s *Scheduler) RunOnce(ctx context.Context) {
	if n, err := s.sessions.CompleteElapsed(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to complete elapsed sessions")
	} else if n > 0 {
		s.logger.Info().Int("count", n).Msg("Completed elapsed mentorship sessions")
	}

	if n, err := s.jobs.CloseExpired(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to close expired job postings")
	} else if n > 0 {
		s.logger.Info().Int64("count", n).Msg("Closed expired job postings")
	}

	if n, err := s.webinars.CompletePast(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to complete past webinars")
	} else if n > 0 {
		s.logger.Info().Int64("count", n).Msg("Completed past webinars")
	}
}
