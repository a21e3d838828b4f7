package cron

import (
	"Clipper/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine            *cron.Cron
	schedule          string
	metricsRefreshJob *job.MetricsRefreshJob
}

// NewCronManager schedule 为带秒字段的 cron 表达式
func NewCronManager(schedule string, metricsRefreshJob *job.MetricsRefreshJob) *Manager {
	return &Manager{
		engine:            cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule:          schedule,
		metricsRefreshJob: metricsRefreshJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if s.schedule == "" {
		log.Warn("Metrics refresh schedule is empty, job not registered")
		return nil
	}
	if _, err := s.engine.AddJob(s.schedule, s.metricsRefreshJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "jobs", len(s.engine.Entries()))
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
