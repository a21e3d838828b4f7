package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/logger"
	"Clipper/internal/pkg/queue"
	"Clipper/internal/pkg/util"
	"Clipper/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// 签发时与其他用户有效验证码冲突的最大重抽次数
const maxOTPDraws = 5

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

type RedeemOutcome string

const (
	RedeemLinked    RedeemOutcome = "linked"
	RedeemNoMatch   RedeemOutcome = "no_match"
	RedeemExpired   RedeemOutcome = "expired"
	RedeemMalformed RedeemOutcome = "malformed"
)

type RedeemResult struct {
	Outcome RedeemOutcome
	UserID  string
}

// OTPService 消息平台验证码绑定：Unregistered -> Pending -> Linked
type OTPService interface {
	Issue(ctx context.Context, req *dto.RegisterDTO) (string, error)
	Redeem(ctx context.Context, req *dto.RedeemOTPDTO) (*RedeemResult, error)
}

type otpServiceImpl struct {
	userRepo repository.UserRepo
	enqueuer queue.Enqueuer
	cfg      config.OTPConfig
	now      func() time.Time
}

func NewOTPService(userRepo repository.UserRepo, enqueuer queue.Enqueuer, cfg config.OTPConfig) OTPService {
	return &otpServiceImpl{
		userRepo: userRepo,
		enqueuer: enqueuer,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *otpServiceImpl) ttl() time.Duration {
	if s.cfg.TTL <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(s.cfg.TTL) * time.Second
}

// Issue 用户不存在时创建；新验证码覆盖旧验证码
func (s *otpServiceImpl) Issue(ctx context.Context, req *dto.RegisterDTO) (string, error) {
	whopID := strings.TrimSpace(req.UserID)
	if whopID == "" {
		return "", ErrMissingUserID
	}

	user, err := s.getOrCreateUser(ctx, whopID, req.Username, req.Avatar)
	if err != nil {
		return "", err
	}

	now := s.now()
	otp, err := s.drawOTP(ctx, user.ID, now.UnixMilli())
	if err != nil {
		return "", err
	}

	expires := now.Add(s.ttl()).UnixMilli()
	if err = s.userRepo.SetOTP(ctx, user.ID, otp, expires); err != nil {
		return "", err
	}

	log.InfoContext(ctx, "otp issued", "user_id", user.ID, "whop_id", whopID, "otp", logger.MaskCode(otp), "expires", expires)
	return otp, nil
}

func (s *otpServiceImpl) getOrCreateUser(ctx context.Context, whopID, username, avatar string) (*model.User, error) {
	user, err := s.userRepo.GetUserByWhopID(ctx, whopID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err = s.userRepo.UpdateProfile(ctx, user.ID, username, avatar); err != nil {
			return nil, err
		}
		return user, nil
	}

	user = &model.User{
		ID:       uuid.NewString(),
		WhopID:   whopID,
		Username: username,
		Avatar:   avatar,
	}
	err = s.userRepo.CreateUser(ctx, user)
	if err == nil {
		log.InfoContext(ctx, "user created", "user_id", user.ID, "whop_id", whopID)
		return user, nil
	}
	if !repository.IsDuplicateKey(err) {
		return nil, err
	}

	// 并发首次注册，另一请求已创建
	existing, err := s.userRepo.GetUserByWhopID(ctx, whopID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, UnExpectedError
	}
	if err = s.userRepo.UpdateProfile(ctx, existing.ID, username, avatar); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *otpServiceImpl) drawOTP(ctx context.Context, userID string, nowMs int64) (string, error) {
	var otp string
	for i := 0; i < maxOTPDraws; i++ {
		code, err := util.GenerateOTP()
		if err != nil {
			return "", err
		}
		otp = code
		taken, err := s.userRepo.ExistsActiveOTP(ctx, otp, userID, nowMs)
		if err != nil {
			return "", err
		}
		if !taken {
			return otp, nil
		}
	}
	log.WarnContext(ctx, "otp collision persisted after redraws", "user_id", userID, "draws", maxOTPDraws)
	return otp, nil
}

// Redeem 未匹配、已过期都视为无操作，不向调用方暴露
func (s *otpServiceImpl) Redeem(ctx context.Context, req *dto.RedeemOTPDTO) (*RedeemResult, error) {
	otp := strings.TrimSpace(req.OTP)
	accountID := strings.TrimSpace(req.AccountID)
	if !otpPattern.MatchString(otp) || accountID == "" {
		log.InfoContext(ctx, "ignore message without otp", "account_id", accountID)
		return &RedeemResult{Outcome: RedeemMalformed}, nil
	}

	user, err := s.userRepo.GetUserByOTP(ctx, otp)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.InfoContext(ctx, "otp not matched", "otp", logger.MaskCode(otp), "account_id", accountID)
		return &RedeemResult{Outcome: RedeemNoMatch}, nil
	}

	if s.cfg.EnforceExpiry && (user.OTPExpires == nil || *user.OTPExpires < s.now().UnixMilli()) {
		log.InfoContext(ctx, "otp expired", "user_id", user.ID, "otp", logger.MaskCode(otp))
		return &RedeemResult{Outcome: RedeemExpired, UserID: user.ID}, nil
	}

	handle := util.NormalizeHandle(req.Handle)
	if handle == "" {
		handle = accountID
	}
	account := &model.LinkedAccount{
		Platform:       model.PlatformInstagram,
		Handle:         handle,
		PlatformUserID: accountID,
	}
	claimed, err := s.userRepo.ClaimOTPAndLink(ctx, user.ID, otp, account)
	if err != nil {
		return nil, err
	}
	if !claimed {
		log.InfoContext(ctx, "otp already claimed", "user_id", user.ID, "otp", logger.MaskCode(otp))
		return &RedeemResult{Outcome: RedeemNoMatch}, nil
	}
	log.InfoContext(ctx, "instagram account linked", "user_id", user.ID, "account_id", accountID, "handle", handle)

	enqueueIngest(ctx, s.enqueuer, user.ID, model.PlatformInstagram, handle, consts.IngestReasonLinked)
	return &RedeemResult{Outcome: RedeemLinked, UserID: user.ID}, nil
}

// enqueueIngest 在绑定提交之后投递，失败只记录日志
func enqueueIngest(ctx context.Context, enqueuer queue.Enqueuer, userID string, platform model.Platform, handle, reason string) {
	err := enqueuer.Enqueue(ctx, queue.IngestJob{
		UserID:   userID,
		Platform: platform,
		Handle:   handle,
		Reason:   reason,
		TraceID:  logger.TraceID(ctx),
	})
	if err != nil {
		level := log.LevelError
		if errors.Is(err, queue.ErrQueueFull) {
			level = log.LevelWarn
		}
		log.Log(ctx, level, "enqueue ingest job failed", "user_id", userID, "platform", platform, "err", err)
	}
}
