package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/redis"
	"Clipper/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultTopClipsLimit = 10
	maxTopClipsLimit     = 50
	defaultTopClipsDays  = 7
)

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) ([]*dto.UserDTO, error)
	GetRisingStars(ctx context.Context) ([]*dto.RisingStarDTO, error)
	GetTopClips(ctx context.Context, query *dto.TopClipsQuery) ([]*dto.ClipDTO, error)
	MetricsUpdated(ctx context.Context, event *dto.MetricsUpdatedEvent)
}

type leaderboardServiceImpl struct {
	userRepo     repository.UserRepo
	snapshotRepo repository.SnapshotRepo
	clipRepo     repository.ClipRepo
	rdb          *redis.Client
	cfg          config.CacheConfig
	now          func() time.Time
}

func NewLeaderboardService(
	userRepo repository.UserRepo,
	snapshotRepo repository.SnapshotRepo,
	clipRepo repository.ClipRepo,
	rdb *redis.Client,
	cfg config.CacheConfig,
) LeaderboardService {
	return &leaderboardServiceImpl{
		userRepo:     userRepo,
		snapshotRepo: snapshotRepo,
		clipRepo:     clipRepo,
		rdb:          rdb,
		cfg:          cfg,
		now:          time.Now,
	}
}

// GetLeaderboard 仅包含已绑定账号的用户，按 views 倒序
func (s *leaderboardServiceImpl) GetLeaderboard(ctx context.Context) ([]*dto.UserDTO, error) {
	var cached []*dto.UserDTO
	if s.readCache(ctx, consts.LeaderboardCacheKey, &cached) {
		return cached, nil
	}

	users, err := s.userRepo.ListLinkedUsers(ctx)
	if err != nil {
		return nil, err
	}
	res, err := dto.ToUserDTOs(users)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, consts.LeaderboardCacheKey, res, s.cfg.LeaderboardTTL)
	return res, nil
}

func (s *leaderboardServiceImpl) GetRisingStars(ctx context.Context) ([]*dto.RisingStarDTO, error) {
	var cached []*dto.RisingStarDTO
	if s.readCache(ctx, consts.RisingStarsCacheKey, &cached) {
		return cached, nil
	}

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	res := computeRisingStars(users, snapshots, s.now().UTC())

	s.writeCache(ctx, consts.RisingStarsCacheKey, res, s.cfg.RisingStarsTTL)
	return res, nil
}

func (s *leaderboardServiceImpl) GetTopClips(ctx context.Context, query *dto.TopClipsQuery) ([]*dto.ClipDTO, error) {
	limit, days := defaultTopClipsLimit, defaultTopClipsDays
	if query != nil {
		if query.Limit > 0 {
			limit = min(query.Limit, maxTopClipsLimit)
		}
		if query.Days > 0 {
			days = query.Days
		}
	}

	since := s.now().UTC().AddDate(0, 0, -days)
	clips, err := s.clipRepo.TopSince(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ClipDTO, 0, len(clips))
	for _, c := range clips {
		d, err := dto.ToClipDTO(c)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

// MetricsUpdated 清除榜单缓存并推送实时事件
func (s *leaderboardServiceImpl) MetricsUpdated(ctx context.Context, event *dto.MetricsUpdatedEvent) {
	if err := s.rdb.DeleteKey(ctx, consts.LeaderboardCacheKey, consts.RisingStarsCacheKey); err != nil {
		log.WarnContext(ctx, "drop leaderboard cache failed", "err", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal metrics event failed", "err", err)
		return
	}
	if err = s.rdb.Publish(ctx, consts.MetricsUpdatedTopic, string(payload)); err != nil {
		log.WarnContext(ctx, "publish metrics event failed", "err", err)
	}
}

// readCache 缓存异常时回源
func (s *leaderboardServiceImpl) readCache(ctx context.Context, key string, dest any) bool {
	value, err := s.rdb.GetValue(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "read cache failed", "key", key, "err", err)
		return false
	}
	if value == "" {
		return false
	}
	if err = json.Unmarshal([]byte(value), dest); err != nil {
		log.WarnContext(ctx, "decode cache failed", "key", key, "err", err)
		return false
	}
	return true
}

func (s *leaderboardServiceImpl) writeCache(ctx context.Context, key string, value any, ttlSeconds int) {
	if ttlSeconds <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.WarnContext(ctx, "encode cache failed", "key", key, "err", err)
		return
	}
	if err = s.rdb.SetWithExpiration(ctx, key, string(raw), time.Duration(ttlSeconds)*time.Second); err != nil {
		log.WarnContext(ctx, "write cache failed", "key", key, "err", err)
	}
}
