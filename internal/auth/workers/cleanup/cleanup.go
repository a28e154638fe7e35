// Package cleanup removes expired auth artifacts on a schedule.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// SessionStore exposes cleanup for expired sessions.
type SessionStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// ChallengeStore exposes cleanup for expired pending challenges.
type ChallengeStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// CleanupResult summarizes the deletions performed by a cleanup run.
type CleanupResult struct {
	DeletedSessions   int
	DeletedChallenges int
}

// CleanupService periodically removes expired sessions and challenges.
// Expiry is also enforced at read time; the sweep just keeps the stores from
// accumulating dead entries.
type CleanupService struct {
	sessions   SessionStore
	challenges ChallengeStore
	interval   time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// CleanupOption configures CleanupService.
type CleanupOption func(*CleanupService)

// WithCleanupInterval overrides the cleanup interval when greater than zero.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithCleanupLogger overrides the logger used for cleanup errors.
func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCleanupClock overrides the wall clock for tests.
func WithCleanupClock(now func() time.Time) CleanupOption {
	return func(s *CleanupService) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a CleanupService with required stores and options applied.
func New(sessions SessionStore, challenges ChallengeStore, opts ...CleanupOption) (*CleanupService, error) {
	if sessions == nil || challenges == nil {
		return nil, fmt.Errorf("sessions and challenges stores are required")
	}
	svc := &CleanupService{
		sessions:   sessions,
		challenges: challenges,
		interval:   time.Minute,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "auth cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep over both stores. Errors are aggregated so
// one failing store never blocks the other's sweep.
func (s *CleanupService) RunOnce(ctx context.Context) (CleanupResult, error) {
	now := s.now()
	var res CleanupResult
	var errs []error

	deletedSessions, err := s.sessions.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired sessions: %w", err))
	} else {
		res.DeletedSessions = deletedSessions
	}

	deletedChallenges, err := s.challenges.DeleteExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("delete expired challenges: %w", err))
	} else {
		res.DeletedChallenges = deletedChallenges
	}

	if len(errs) > 0 {
		return res, errors.Join(errs...)
	}

	if res.DeletedSessions > 0 || res.DeletedChallenges > 0 {
		s.logger.InfoContext(ctx, "auth cleanup completed",
			"deleted_sessions", res.DeletedSessions,
			"deleted_challenges", res.DeletedChallenges,
		)
	}
	return res, nil
}
