package scheduler

import (
	"context"
	"fmt"

	"RSIDashboard/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Refresher recomputes the cached signals.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Ctx       context.Context
	log       *zerolog.Logger
}

// NewScheduler creates a new Scheduler. Specs carry a leading seconds field.
func NewScheduler(ctx context.Context, r Refresher, log *zerolog.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Ctx:       ctx,
		log:       log,
	}
}

// RegisterRefresh registers the cache warmer. An empty spec disables it.
func (s *Scheduler) RegisterRefresh(spec string) error {
	if spec == "" {
		s.log.Info().Msg("refresh schedule not configured")
		return nil
	}
	// A tick that arrives while a refresh is still running is skipped.
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.refreshTask))
	if _, err := s.Cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.log.Info().Str("spec", spec).Msg("refresh task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if s.Ctx.Err() != nil {
		return
	}
	s.log.Info().Msg("running scheduled refresh")
	if err := s.Refresher.Refresh(s.Ctx); err != nil {
		s.log.Error().Err(err).Msg("scheduled refresh")
	}
}
