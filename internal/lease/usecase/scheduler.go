package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs LeaseUseCase.Tick from a time.Ticker loop, like rotation's
// scheduler: Tick runs synchronously, so the next sweep only starts once the
// previous one has fully drained and an overrunning sweep can never overlap
// itself. The ticker holds at most one pending fire, so a sweep that overran
// its interval is followed at once by the next one.
type Scheduler struct {
	useCase  LeaseUseCase
	interval time.Duration
	logger   *slog.Logger
}

// NewScheduler builds a Scheduler that calls useCase.Tick every interval.
func NewScheduler(useCase LeaseUseCase, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{useCase: useCase, interval: interval, logger: logger}
}

// Start blocks, running Tick every interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting lease expiry scheduler", slog.Duration("interval", s.interval))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("stopping lease expiry scheduler")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.useCase.Tick(ctx); err != nil && s.logger != nil {
				s.logger.Error("lease expiry tick failed", slog.Any("error", err))
			}
		}
	}
}
