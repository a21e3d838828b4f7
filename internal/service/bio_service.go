package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/queue"
	"Clipper/internal/pkg/scraper"
	"Clipper/internal/pkg/util"
	"Clipper/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"regexp"
	"strings"
)

var challengePattern = regexp.MustCompile(`^[A-Z0-9]+-[A-Z0-9]{6}$`)

// BioService 简介验证：验证码不落库，由客户端回传
type BioService interface {
	IssueChallenge(ctx context.Context) (string, error)
	Verify(ctx context.Context, req *dto.VerifyBioDTO) error
}

type bioServiceImpl struct {
	userRepo    repository.UserRepo
	accountRepo repository.LinkedAccountRepo
	scraper     scraper.Scraper
	enqueuer    queue.Enqueuer
	cfg         config.BioConfig
}

func NewBioService(
	userRepo repository.UserRepo,
	accountRepo repository.LinkedAccountRepo,
	scraper scraper.Scraper,
	enqueuer queue.Enqueuer,
	cfg config.BioConfig,
) BioService {
	return &bioServiceImpl{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		scraper:     scraper,
		enqueuer:    enqueuer,
		cfg:         cfg,
	}
}

func (s *bioServiceImpl) IssueChallenge(ctx context.Context) (string, error) {
	prefix := s.cfg.CodePrefix
	if prefix == "" {
		prefix = "WHOP"
	}
	code, err := util.GenerateChallengeCode(prefix)
	if err != nil {
		return "", err
	}
	log.DebugContext(ctx, "bio challenge issued", "code", code)
	return code, nil
}

// bioPlatform 支持简介验证的平台
func bioPlatform(raw string) (model.Platform, error) {
	platform, ok := model.ParsePlatform(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return "", ErrPlatformInvalid
	}
	switch platform {
	case model.PlatformTikTok, model.PlatformInstagram:
		return platform, nil
	default:
		return "", ErrPlatformUnsupported
	}
}

// Verify 失败时不产生任何写入，可安全重试
func (s *bioServiceImpl) Verify(ctx context.Context, req *dto.VerifyBioDTO) error {
	handle := util.NormalizeHandle(req.Handle)
	code := strings.TrimSpace(req.Code)
	whopID := strings.TrimSpace(req.UserID)
	if handle == "" || code == "" || whopID == "" || strings.TrimSpace(req.Platform) == "" {
		return ErrMissingFields
	}

	platform, err := bioPlatform(req.Platform)
	if err != nil {
		return err
	}
	if !challengePattern.MatchString(code) {
		return ErrCodeMalformed
	}

	user, err := s.userRepo.GetUserByWhopID(ctx, whopID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	profile, err := s.scraper.FetchProfile(ctx, platform, handle)
	if err != nil {
		if errors.Is(err, scraper.ErrPlatformUnsupported) {
			return ErrPlatformUnsupported
		}
		log.WarnContext(ctx, "bio verification scrape failed", "platform", platform, "handle", handle, "err", err)
		return ErrProfileNotFound
	}

	if !strings.Contains(profile.Bio, code) {
		log.InfoContext(ctx, "bio code not found", "user_id", user.ID, "platform", platform, "handle", handle)
		return ErrCodeNotInBio
	}

	err = s.accountRepo.Upsert(ctx, &model.LinkedAccount{
		UserID:         user.ID,
		Platform:       platform,
		Handle:         handle,
		PlatformUserID: handle,
	})
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "account linked by bio", "user_id", user.ID, "platform", platform, "handle", handle)

	enqueueIngest(ctx, s.enqueuer, user.ID, platform, handle, consts.IngestReasonLinked)
	return nil
}
