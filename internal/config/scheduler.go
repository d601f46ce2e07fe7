package config

import (
	"context"
	"time"

	assistantService "StokAsistan/internal/api/assistant/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const cleanupTimeout = time.Minute

type Scheduler struct {
	cron   *cron.Cron
	log    *logrus.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(log *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddSessionCleanup deactivates stale chat sessions on the given cron spec.
func (s *Scheduler) AddSessionCleanup(spec string, svc assistantService.IAssistantService) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, cleanupTimeout)
		defer cancel()

		if _, err := svc.CleanupStaleSessions(ctx); err != nil {
			s.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Error("Stale session cleanup failed")
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.log.Info("Scheduler stopped")
}
