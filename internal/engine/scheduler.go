package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs every registration's pass on a fixed interval.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a new Scheduler that runs all passes every interval.
// A tick does not wait for the previous tick's passes to finish.
func NewScheduler(
	eng *Engine,
	interval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+interval.String(),
		s.runPasses,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Shutdown stops the scheduler and waits for running jobs to finish or for
// ctx to be done, whichever comes first.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	stopped := s.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runPasses() {
	ctx := context.Background()
	s.log.Info("scheduled passes starting", "registrations", len(s.engine.Registrations()))
	results, err := s.engine.RunAll(ctx, TriggerSchedule)
	if err != nil {
		s.log.Error("scheduled passes failed", "passes", len(results), "error", err)
	}
}
