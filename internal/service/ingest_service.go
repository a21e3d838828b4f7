package service

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/queue"
	"Clipper/internal/pkg/scraper"
	"Clipper/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"
)

type IngestStatus string

const (
	IngestSuccess      IngestStatus = "success"
	IngestFailedScrape IngestStatus = "failed_scrape"
	IngestUnsupported  IngestStatus = "unsupported"
	IngestError        IngestStatus = "error"
)

type IngestResult struct {
	Status      IngestStatus
	Followers   int64
	RecentViews int64
}

// MetricsNotifier 指标写入成功后的通知
type MetricsNotifier interface {
	MetricsUpdated(ctx context.Context, event *dto.MetricsUpdatedEvent)
}

type IngestService interface {
	Ingest(ctx context.Context, userID string, platform model.Platform, handle string) (*IngestResult, error)
	HandleJob(ctx context.Context, job queue.IngestJob) error
}

type ingestServiceImpl struct {
	scraper     scraper.Scraper
	metricsRepo repository.MetricsRepo
	notifier    MetricsNotifier
	now         func() time.Time
}

func NewIngestService(scraper scraper.Scraper, metricsRepo repository.MetricsRepo, notifier MetricsNotifier) IngestService {
	return &ingestServiceImpl{
		scraper:     scraper,
		metricsRepo: metricsRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Ingest 抓取失败返回 failed_scrape，不写入任何数据；只有存储错误才返回 error
func (s *ingestServiceImpl) Ingest(ctx context.Context, userID string, platform model.Platform, handle string) (*IngestResult, error) {
	profile, err := s.scraper.FetchProfile(ctx, platform, handle)
	if err != nil {
		if errors.Is(err, scraper.ErrPlatformUnsupported) {
			return &IngestResult{Status: IngestUnsupported}, nil
		}
		log.WarnContext(ctx, "scrape failed", "user_id", userID, "platform", platform, "handle", handle, "err", err)
		return &IngestResult{Status: IngestFailedScrape}, nil
	}

	now := s.now().UTC()
	recentViews := profile.RecentViews()
	record := &repository.IngestionRecord{
		UserID: userID,
		Views:  recentViews,
		Snapshot: &model.MetricSnapshot{
			UserID:    userID,
			Views:     recentViews,
			Followers: profile.Followers,
			Timestamp: now,
		},
		Clips: toClips(userID, platform, profile.RecentPosts),
	}
	if err = s.metricsRepo.SaveIngestion(ctx, record); err != nil {
		return &IngestResult{Status: IngestError}, err
	}

	log.InfoContext(ctx, "metrics ingested", "user_id", userID, "platform", platform,
		"followers", profile.Followers, "recent_views", recentViews, "clips", len(record.Clips))

	s.notifier.MetricsUpdated(ctx, &dto.MetricsUpdatedEvent{
		Type:        consts.EventMetricsUpdated,
		UserID:      userID,
		Platform:    string(platform),
		Followers:   profile.Followers,
		RecentViews: recentViews,
		At:          now.UnixMilli(),
	})

	return &IngestResult{
		Status:      IngestSuccess,
		Followers:   profile.Followers,
		RecentViews: recentViews,
	}, nil
}

// HandleJob 队列消费入口
func (s *ingestServiceImpl) HandleJob(ctx context.Context, job queue.IngestJob) error {
	result, err := s.Ingest(ctx, job.UserID, job.Platform, job.Handle)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "ingest job done", "user_id", job.UserID, "platform", job.Platform, "reason", job.Reason, "status", result.Status)
	return nil
}

// toClips 同一 URL 只保留第一次出现
func toClips(userID string, platform model.Platform, posts []scraper.Post) []*model.Clip {
	seen := make(map[string]struct{}, len(posts))
	clips := make([]*model.Clip, 0, len(posts))
	for _, p := range posts {
		if p.URL == "" {
			continue
		}
		if _, ok := seen[p.URL]; ok {
			continue
		}
		seen[p.URL] = struct{}{}
		clips = append(clips, &model.Clip{
			UserID:    userID,
			Platform:  platform,
			URL:       p.URL,
			Thumbnail: p.Thumbnail,
			Views:     p.Views,
			Likes:     p.Likes,
			PostedAt:  p.PostedAt.UTC(),
		})
	}
	return clips
}
