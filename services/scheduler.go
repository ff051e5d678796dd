package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic care-log status refresh.
type Scheduler struct {
	cron     *cron.Cron
	careLogs *CareLogService
	logger   *zap.Logger
}

func NewScheduler(careLogs *CareLogService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		careLogs: careLogs,
		logger:   logger,
	}
}

// Start registers the refresh job on spec (standard five-field cron syntax)
// and starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RefreshCareLogs); err != nil {
		return fmt.Errorf("schedule care log refresh %q: %w", spec, err)
	}
	s.cron.Start()
	s.logger.Info("care log scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop halts the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) RefreshCareLogs() {
	s.logger.Info("starting care log refresh")
	n, err := s.careLogs.RefreshOverdue(context.Background())
	if err != nil {
		s.logger.Error("care log refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("care log refresh completed", zap.Int("marked_overdue", n))
}
