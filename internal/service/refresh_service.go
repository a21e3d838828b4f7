package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/redis"
	"Clipper/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// RefreshService 全量刷新所有绑定账号的指标
type RefreshService interface {
	RefreshAll(ctx context.Context) (*dto.RefreshResult, error)
}

type refreshServiceImpl struct {
	userRepo  repository.UserRepo
	ingestSvc IngestService
	rdb       *redis.Client
	cfg       config.RefreshConfig
	limiter   *rate.Limiter
}

func NewRefreshService(userRepo repository.UserRepo, ingestSvc IngestService, rdb *redis.Client, cfg config.RefreshConfig) RefreshService {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &refreshServiceImpl{
		userRepo:  userRepo,
		ingestSvc: ingestSvc,
		rdb:       rdb,
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

type refreshTask struct {
	user    *model.User
	account model.LinkedAccount
}

// RefreshAll 单个账号失败只记录在结果中；结果顺序与用户、账号顺序一致
func (s *refreshServiceImpl) RefreshAll(ctx context.Context) (*dto.RefreshResult, error) {
	lockValue := uuid.NewString()
	lockTTL := time.Duration(s.cfg.LockTTL) * time.Second
	if lockTTL <= 0 {
		lockTTL = 30 * time.Minute
	}
	locked, err := s.rdb.TryLock(ctx, consts.MetricsRefreshLock, lockValue, lockTTL, 1)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRefreshRunning
	}
	defer func() {
		if err := s.rdb.UnLock(context.WithoutCancel(ctx), consts.MetricsRefreshLock, lockValue); err != nil {
			log.ErrorContext(ctx, "release refresh lock failed", "err", err)
		}
	}()

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]refreshTask, 0)
	for _, u := range users {
		for _, acc := range u.LinkedAccounts {
			tasks = append(tasks, refreshTask{user: u, account: acc})
		}
	}

	start := time.Now()
	details := make([]dto.RefreshDetail, len(tasks))
	g := new(errgroup.Group)
	concurrency := s.cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	g.SetLimit(concurrency)

	for i, task := range tasks {
		g.Go(func() error {
			details[i] = s.refreshOne(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	log.InfoContext(ctx, "metrics refresh finished", "users", len(users), "accounts", len(tasks), "elapsed", time.Since(start).String())
	return &dto.RefreshResult{
		Success:   true,
		Processed: len(details),
		Details:   details,
	}, nil
}

func (s *refreshServiceImpl) refreshOne(ctx context.Context, task refreshTask) dto.RefreshDetail {
	detail := dto.RefreshDetail{
		User:     task.user.WhopID,
		Platform: string(task.account.Platform),
	}

	if err := s.limiter.Wait(ctx); err != nil {
		detail.Status = string(IngestError)
		detail.Error = err.Error()
		return detail
	}

	result, err := s.ingestSvc.Ingest(ctx, task.user.ID, task.account.Platform, task.account.Handle)
	if err != nil {
		log.ErrorContext(ctx, "refresh account failed", "user_id", task.user.ID, "platform", task.account.Platform, "err", err)
		detail.Status = string(IngestError)
		detail.Error = UnExpectedError.Error()
		return detail
	}

	detail.Status = string(result.Status)
	if result.Status == IngestSuccess {
		followers, views := result.Followers, result.RecentViews
		detail.Followers = &followers
		detail.RecentViews = &views
	}
	return detail
}
