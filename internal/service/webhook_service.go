package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/logger"
	"Clipper/internal/pkg/security"
	"context"
	log "log/slog"
	"strings"

	"github.com/goccy/go-json"
)

const instagramObject = "instagram"

type DeliveryOutcome string

const (
	// DeliveryHandled 识别出消息格式并完成兑换（是否匹配不影响）
	DeliveryHandled DeliveryOutcome = "handled"
	// DeliveryIgnored 无法解析或格式不识别
	DeliveryIgnored DeliveryOutcome = "ignored"
)

// WebhookService 消息平台回调：订阅校验与消息投递
type WebhookService interface {
	VerifySubscription(mode, token, challenge string) (string, error)
	HandleDelivery(ctx context.Context, body []byte, signature string) (DeliveryOutcome, error)
}

type webhookServiceImpl struct {
	otpSvc  OTPService
	cfg     config.WebhookConfig
	release bool
}

func NewWebhookService(otpSvc OTPService, cfg config.WebhookConfig, release bool) WebhookService {
	return &webhookServiceImpl{
		otpSvc:  otpSvc,
		cfg:     cfg,
		release: release,
	}
}

func (s *webhookServiceImpl) VerifySubscription(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || s.cfg.VerifyToken == "" || token != s.cfg.VerifyToken {
		return "", ErrWebhookVerifyFailed
	}
	return challenge, nil
}

// HandleDelivery 签名不通过时不做任何处理
func (s *webhookServiceImpl) HandleDelivery(ctx context.Context, body []byte, signature string) (DeliveryOutcome, error) {
	if err := s.checkSignature(ctx, body, signature); err != nil {
		return "", err
	}

	var probe struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		log.WarnContext(ctx, "webhook body is not json", "err", err)
		return DeliveryIgnored, nil
	}

	if probe.Object == instagramObject {
		var payload dto.InstagramWebhook
		if err := json.Unmarshal(body, &payload); err != nil {
			log.WarnContext(ctx, "decode instagram webhook failed", "err", err)
			return DeliveryIgnored, nil
		}
		if payload.Entry == nil {
			return DeliveryIgnored, nil
		}
		s.handleInstagram(ctx, &payload)
		return DeliveryHandled, nil
	}

	var sim dto.SimulationPayload
	if err := json.Unmarshal(body, &sim); err != nil {
		return DeliveryIgnored, nil
	}
	if sim.OTP == "" || sim.InstagramID == "" || sim.InstagramHandle == "" {
		return DeliveryIgnored, nil
	}
	s.redeem(ctx, &dto.RedeemOTPDTO{OTP: sim.OTP, AccountID: sim.InstagramID, Handle: sim.InstagramHandle})
	return DeliveryHandled, nil
}

func (s *webhookServiceImpl) checkSignature(ctx context.Context, body []byte, signature string) error {
	if s.cfg.AppSecret == "" {
		if s.release && !s.cfg.AllowUnsigned {
			log.ErrorContext(ctx, "webhook app secret not configured, rejecting delivery")
			return ErrSignatureInvalid
		}
		log.WarnContext(ctx, "webhook app secret not configured, skipping signature verification")
		return nil
	}
	if !security.VerifySignature(s.cfg.AppSecret, body, signature) {
		log.WarnContext(ctx, "webhook signature mismatch")
		return ErrSignatureInvalid
	}
	return nil
}

// handleInstagram 平台只给出发送者 ID，handle 先用 ID 代替
func (s *webhookServiceImpl) handleInstagram(ctx context.Context, payload *dto.InstagramWebhook) {
	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			if event.Message == nil || event.Message.IsEcho || event.Message.Text == "" {
				continue
			}
			senderID := event.Sender.ID
			if senderID == "" {
				continue
			}
			s.redeem(ctx, &dto.RedeemOTPDTO{
				OTP:       strings.TrimSpace(event.Message.Text),
				AccountID: senderID,
				Handle:    senderID,
			})
		}
	}
}

// redeem 单条消息失败不影响同批次其他消息
func (s *webhookServiceImpl) redeem(ctx context.Context, req *dto.RedeemOTPDTO) {
	res, err := s.otpSvc.Redeem(ctx, req)
	if err != nil {
		log.ErrorContext(ctx, "redeem otp failed", "account_id", req.AccountID, "otp", logger.MaskCode(req.OTP), "err", err)
		return
	}
	log.InfoContext(ctx, "otp redeemed", "outcome", res.Outcome, "user_id", res.UserID, "account_id", req.AccountID)
}
