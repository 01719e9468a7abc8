package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Poller runs one poll cycle.
type Poller interface {
	Name() string
	Poll(ctx context.Context) error
}

// Scheduler drives a set of pollers: one cycle immediately, then one per interval.
type Scheduler struct {
	pollers  []Poller
	interval time.Duration
	gap      time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs all pollers every interval,
// pausing gap between consecutive pollers.
func NewScheduler(pollers []Poller, interval, gap time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers:  pollers,
		interval: interval,
		gap:      gap,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled and then returns nil. Poll errors are
// logged, never returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"pollers", len(s.pollers),
	)

	s.cycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

// RunOnce runs a single cycle and returns the poll errors joined.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.pollAll(ctx)
}

func (s *Scheduler) cycle(ctx context.Context) {
	start := time.Now()
	err := s.pollAll(ctx)
	s.logger.Debug("poll cycle finished",
		"took", time.Since(start).Round(time.Millisecond).String(),
		"ok", err == nil,
	)
}

// pollAll runs Poll on each poller in order, pausing gap between them. A
// failing poller does not stop the others.
func (s *Scheduler) pollAll(ctx context.Context) error {
	var errs []error
	for i, p := range s.pollers {
		if ctx.Err() != nil {
			break
		}

		if err := p.Poll(ctx); err != nil {
			s.logger.Error("poll failed",
				"poller", p.Name(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		}

		if s.gap > 0 && i < len(s.pollers)-1 {
			select {
			case <-ctx.Done():
				return errors.Join(errs...)
			case <-time.After(s.gap):
			}
		}
	}
	return errors.Join(errs...)
}
