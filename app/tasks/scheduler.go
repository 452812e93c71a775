package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/stchernia/voodoo-wizz/app/database"
)

// Populator runs one populate cycle and returns the persisted records.
type Populator interface {
	Run(ctx context.Context) ([]database.Game, error)
}

// Scheduler re-runs the populate pipeline on a cron spec (e.g. "@every 6h").
// It is only constructed when a schedule is configured; the manual populate
// endpoint stays available either way.
type Scheduler struct {
	cron      *cron.Cron
	populator Populator
	spec      string
}

func NewScheduler(populator Populator, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		populator: populator,
		spec:      spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runPopulate); err != nil {
		return fmt.Errorf("invalid populate schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	slog.Info("Populate scheduler started", "spec", s.spec)

	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Populate scheduler stopped")
}

func (s *Scheduler) runPopulate() {
	games, err := s.populator.Run(context.Background())
	if err != nil {
		slog.Error("Scheduled populate failed", "error", err)
		return
	}

	slog.Info("Scheduled populate completed", "inserted", len(games))
}
