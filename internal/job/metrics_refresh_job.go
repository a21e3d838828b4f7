package job

import (
	"Clipper/internal/pkg/logger"
	"Clipper/internal/service"
	"context"
	"errors"
	log "log/slog"
)

// MetricsRefreshJob 定时全量刷新
type MetricsRefreshJob struct {
	refreshSvc service.RefreshService
}

func NewMetricsRefreshJob(refreshSvc service.RefreshService) *MetricsRefreshJob {
	return &MetricsRefreshJob{refreshSvc: refreshSvc}
}

func (s *MetricsRefreshJob) Run() {
	ctx := logger.NewJobContext(context.Background(), "metrics-refresh")

	result, err := s.refreshSvc.RefreshAll(ctx)
	if err != nil {
		if errors.Is(err, service.ErrRefreshRunning) {
			log.WarnContext(ctx, "metrics refresh skipped, previous run still active")
			return
		}
		log.ErrorContext(ctx, "metrics refresh error", "err", err)
		return
	}

	counts := make(map[string]int)
	for _, d := range result.Details {
		counts[d.Status]++
	}
	log.InfoContext(ctx, "metrics refresh job done", "processed", result.Processed, "statuses", counts)
}
