// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// PostingCloser closes postings whose deadline has passed
type PostingCloser interface {
	CloseExpiredPostings(ctx context.Context) (int64, error)
}

// jobTimeout bounds a single run of the close job
const jobTimeout = 30 * time.Second

// Scheduler closes expired postings on a cron schedule. Eligibility already
// filters on the deadline; this keeps the stored status in line with it.
type Scheduler struct {
	cron    *cron.Cron
	closer  PostingCloser
	logger  zerolog.Logger
	enabled bool
}

// New registers the close job. An empty schedule disables it.
func New(closer PostingCloser, schedule string, logger zerolog.Logger) (*Scheduler, error) {
	cronLogger := cron.PrintfLogger(&logger)
	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		closer: closer,
		logger: logger,
	}
	if schedule == "" {
		logger.Info().Msg("Posting close schedule not set, scheduler disabled")
		return s, nil
	}

	if _, err := s.cron.AddFunc(schedule, s.closeExpired); err != nil {
		return nil, fmt.Errorf("invalid posting close schedule %q: %w", schedule, err)
	}
	s.enabled = true
	return s, nil
}

// Start runs the jobs in the background. It does nothing when disabled.
func (s *Scheduler) Start() {
	if !s.enabled {
		return
	}
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	if !s.enabled {
		return
	}
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info().Msg("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("Scheduler stop timed out with a job still running")
	}
}

// RunOnce closes expired postings immediately
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()
	return s.closer.CloseExpiredPostings(ctx)
}

func (s *Scheduler) closeExpired() {
	closed, err := s.RunOnce(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled posting close failed")
		return
	}
	if closed > 0 {
		s.logger.Info().Int64("closed", closed).Msg("Closed expired postings")
	}
}
