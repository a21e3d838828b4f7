package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/pkg/security"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyOTPService struct {
	mu      sync.Mutex
	redeems []*dto.RedeemOTPDTO
}

func (s *spyOTPService) Issue(context.Context, *dto.RegisterDTO) (string, error) {
	return "000000", nil
}

func (s *spyOTPService) Redeem(_ context.Context, req *dto.RedeemOTPDTO) (*RedeemResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redeems = append(s.redeems, req)
	return &RedeemResult{Outcome: RedeemNoMatch}, nil
}

const testAppSecret = "app-secret"

func signedWebhook(otp OTPService) WebhookService {
	return NewWebhookService(otp, config.WebhookConfig{VerifyToken: "verify-me", AppSecret: testAppSecret}, true)
}

func TestVerifySubscription(t *testing.T) {
	svc := signedWebhook(&spyOTPService{})

	challenge, err := svc.VerifySubscription("subscribe", "verify-me", "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", challenge)

	_, err = svc.VerifySubscription("subscribe", "wrong", "12345")
	assert.ErrorIs(t, err, ErrWebhookVerifyFailed)
	_, err = svc.VerifySubscription("unsubscribe", "verify-me", "12345")
	assert.ErrorIs(t, err, ErrWebhookVerifyFailed)

	empty := NewWebhookService(&spyOTPService{}, config.WebhookConfig{}, false)
	_, err = empty.VerifySubscription("subscribe", "", "12345")
	assert.ErrorIs(t, err, ErrWebhookVerifyFailed, "unset token never matches")
}

func TestDeliveryBadSignatureHasNoSideEffects(t *testing.T) {
	spy := &spyOTPService{}
	svc := signedWebhook(spy)
	body := []byte(`{"otp":"482913","instagramId":"ig_1","instagramHandle":"creator"}`)

	_, err := svc.HandleDelivery(context.Background(), body, security.SignBody("other-secret", body))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	_, err = svc.HandleDelivery(context.Background(), body, "")
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	assert.Empty(t, spy.redeems)
}

func TestDeliveryInstagramShape(t *testing.T) {
	spy := &spyOTPService{}
	svc := signedWebhook(spy)
	body := []byte(`{
		"object": "instagram",
		"entry": [{
			"id": "page",
			"messaging": [
				{"sender": {"id": "17841400000"}, "message": {"mid": "m1", "text": " 482913 "}},
				{"sender": {"id": "page"}, "message": {"mid": "m2", "text": "482913", "is_echo": true}},
				{"sender": {"id": "17841400001"}, "read": {"mid": "m1"}}
			]
		}]
	}`)

	outcome, err := svc.HandleDelivery(context.Background(), body, security.SignBody(testAppSecret, body))
	require.NoError(t, err)
	assert.Equal(t, DeliveryHandled, outcome)
	require.Len(t, spy.redeems, 1)
	assert.Equal(t, "482913", spy.redeems[0].OTP)
	assert.Equal(t, "17841400000", spy.redeems[0].AccountID)
	assert.Equal(t, "17841400000", spy.redeems[0].Handle)
}

func TestDeliverySimulationAndIgnoredShapes(t *testing.T) {
	spy := &spyOTPService{}
	svc := signedWebhook(spy)
	ctx := context.Background()

	sim := []byte(`{"otp":"482913","instagramId":"ig_1","instagramHandle":"@creator"}`)
	outcome, err := svc.HandleDelivery(ctx, sim, security.SignBody(testAppSecret, sim))
	require.NoError(t, err)
	assert.Equal(t, DeliveryHandled, outcome)
	require.Len(t, spy.redeems, 1)
	assert.Equal(t, "@creator", spy.redeems[0].Handle)

	for _, raw := range []string{`not json`, `{"otp":"482913"}`, `{"object":"page"}`, `{"object":"instagram"}`} {
		body := []byte(raw)
		outcome, err = svc.HandleDelivery(ctx, body, security.SignBody(testAppSecret, body))
		require.NoError(t, err, raw)
		assert.Equal(t, DeliveryIgnored, outcome, raw)
	}
	assert.Len(t, spy.redeems, 1)
}

func TestDeliveryUnsignedPolicy(t *testing.T) {
	body := []byte(`{"otp":"482913","instagramId":"ig_1","instagramHandle":"creator"}`)
	ctx := context.Background()

	release := NewWebhookService(&spyOTPService{}, config.WebhookConfig{}, true)
	_, err := release.HandleDelivery(ctx, body, "")
	assert.ErrorIs(t, err, ErrSignatureInvalid)

	allowed := NewWebhookService(&spyOTPService{}, config.WebhookConfig{AllowUnsigned: true}, true)
	outcome, err := allowed.HandleDelivery(ctx, body, "")
	require.NoError(t, err)
	assert.Equal(t, DeliveryHandled, outcome)

	debug := NewWebhookService(&spyOTPService{}, config.WebhookConfig{}, false)
	outcome, err = debug.HandleDelivery(ctx, body, "")
	require.NoError(t, err)
	assert.Equal(t, DeliveryHandled, outcome)
}

func TestDeliveryLinksThroughOTPService(t *testing.T) {
	f := newFixture(t)
	q := &recordingQueue{}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	otpSvc := newOTPService(f, q, true, now)
	ctx := context.Background()

	otp, err := otpSvc.Issue(ctx, &dto.RegisterDTO{UserID: "whop_1"})
	require.NoError(t, err)

	svc := signedWebhook(otpSvc)
	body := []byte(`{"object":"instagram","entry":[{"messaging":[{"sender":{"id":"ig_42"},"message":{"text":"` + otp + `"}}]}]}`)
	outcome, err := svc.HandleDelivery(ctx, body, security.SignBody(testAppSecret, body))
	require.NoError(t, err)
	assert.Equal(t, DeliveryHandled, outcome)

	user := mustUser(t, f, "whop_1")
	require.Len(t, user.LinkedAccounts, 1)
	assert.Equal(t, "ig_42", user.LinkedAccounts[0].PlatformUserID)
	assert.Nil(t, user.OTP)
	assert.Len(t, q.Jobs(), 1)
}
