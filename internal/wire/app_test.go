package wire

import (
	"Clipper/internal/api/config"
	"Clipper/internal/api/dto"
	"Clipper/internal/model"
	"Clipper/internal/pkg/database/databasetest"
	"Clipper/internal/pkg/redis"
	"Clipper/internal/pkg/scraper"
	"Clipper/internal/pkg/scraper/scrapertest"
	"Clipper/internal/pkg/security"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	appSecret   = "meta-app-secret"
	verifyToken = "meta-verify-token"
	cronSecret  = "cron-secret"
	idSecret    = "identity-secret"
	idHeader    = "x-whop-user-token"
)

type testApp struct {
	app  *ApplicationContainer
	fake *scrapertest.Fake
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := databasetest.NewSQLite(t)
	mr := miniredis.RunT(t)
	rdb := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "release", CronSecret: cronSecret},
		Webhook:   config.WebhookConfig{VerifyToken: verifyToken, AppSecret: appSecret},
		Identity:  config.IdentityConfig{TokenSecret: idSecret, Header: idHeader},
		OTP:       config.OTPConfig{TTL: 600, EnforceExpiry: true},
		Bio:       config.BioConfig{CodePrefix: "WHOP"},
		Refresh:   config.RefreshConfig{Concurrency: 2, LockTTL: 60},
		Ingest:    config.IngestConfig{QueueSize: 16, Workers: 1},
		RateLimit: config.RateLimitConfig{PerMinute: 600},
		Cache:     config.CacheConfig{LeaderboardTTL: 60, RisingStarsTTL: 300},
	}

	fake := scrapertest.New()
	app, err := BuildApplication(db, rdb, fake, cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = app.RunWorkers(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		app.Close()
	})

	return &testApp{app: app, fake: fake}
}

func (a *testApp) do(t *testing.T, method, path string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func instagramEvent(senderID, text string) []byte {
	return []byte(`{"object":"instagram","entry":[{"id":"page","time":1,"messaging":[{"sender":{"id":"` +
		senderID + `"},"recipient":{"id":"page"},"timestamp":1,"message":{"mid":"m1","text":"` + text + `"}}]}]}`)
}

func TestRegisterWebhookLeaderboardFlow(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/register", []byte(`{"userId":"whop_e2e","username":"Creator"}`), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	otp := decode[dto.RegisterResponse](t, w).OTP
	require.Regexp(t, `^[0-9]{6}$`, otp)

	body := instagramEvent("17841400000", otp)
	w = a.do(t, http.MethodPost, "/api/webhook/instagram", body, map[string]string{
		"x-hub-signature-256": security.SignBody(appSecret, body),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/leaderboard", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[[]dto.UserDTO](t, w)
	require.Len(t, board, 1)
	assert.Equal(t, "whop_e2e", board[0].WhopID)
	require.Len(t, board[0].LinkedAccounts, 1)
	assert.Equal(t, "instagram", board[0].LinkedAccounts[0].Platform)
	assert.Equal(t, "17841400000", board[0].LinkedAccounts[0].PlatformUserID)
	assert.Nil(t, board[0].OTPExpires)

	// 同一验证码不能再次使用
	body = instagramEvent("17841400999", otp)
	w = a.do(t, http.MethodPost, "/api/webhook", body, map[string]string{
		"x-hub-signature-256": security.SignBody(appSecret, body),
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, "/api/user?whopId=whop_e2e", nil, nil)
	user := decode[dto.UserDTO](t, w)
	assert.Equal(t, "17841400000", user.LinkedAccounts[0].PlatformUserID)
}

func TestWebhookBadSignatureLeavesUserPending(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/register", []byte(`{"userId":"whop_sig"}`), nil)
	require.Equal(t, http.StatusOK, w.Code)
	otp := decode[dto.RegisterResponse](t, w).OTP

	body := instagramEvent("17841400000", otp)
	w = a.do(t, http.MethodPost, "/api/webhook/instagram", body, map[string]string{
		"x-hub-signature-256": security.SignBody("wrong-secret", body),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid signature"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/user?whopId=whop_sig", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[dto.UserDTO](t, w)
	assert.Empty(t, user.LinkedAccounts)
	assert.NotNil(t, user.OTPExpires)
	assert.NotContains(t, w.Body.String(), otp)

	w = a.do(t, http.MethodGet, "/api/leaderboard", nil, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestWebhookSubscriptionAndFallback(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodGet, "/api/webhook/instagram?hub.mode=subscribe&hub.verify_token="+verifyToken+"&hub.challenge=abc123", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", w.Body.String())

	w = a.do(t, http.MethodGet, "/api/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=abc123", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := []byte(`{"hello":"world"}`)
	w = a.do(t, http.MethodPost, "/api/webhook", body, map[string]string{
		"x-hub-signature-256": security.SignBody(appSecret, body),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
}

func TestRegisterValidationAndIdentity(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodPost, "/api/register", []byte(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"missing userId"}`, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/register", []byte(`{"userId":`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token, err := security.NewIdentityVerifier(idSecret).GenerateToken("whop_from_token", time.Minute)
	require.NoError(t, err)
	w = a.do(t, http.MethodPost, "/api/register", []byte(`{"userId":"spoofed"}`), map[string]string{idHeader: token})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/user?whopId=whop_from_token", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/api/user?whopId=spoofed", nil, nil).Code)

	w = a.do(t, http.MethodGet, "/api/user", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"missing whopId"}`, w.Body.String())
}

func TestVerifyBioFlow(t *testing.T) {
	a := newTestApp(t)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/register", []byte(`{"userId":"whop_bio"}`), nil).Code)

	w := a.do(t, http.MethodGet, "/api/verify-bio/challenge", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	code := decode[dto.ChallengeResponse](t, w).Code
	require.Regexp(t, `^WHOP-[A-Z0-9]{6}$`, code)

	a.fake.Set(model.PlatformTikTok, "creator", &scraper.SocialMetrics{Bio: "clips daily " + code, Followers: 10})

	req := []byte(`{"platform":"tiktok","handle":"@creator","code":"` + code + `","userId":"whop_bio"}`)
	w = a.do(t, http.MethodPost, "/api/verify-bio", req, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/user?whopId=whop_bio", nil, nil)
	user := decode[dto.UserDTO](t, w)
	require.Len(t, user.LinkedAccounts, 1)
	assert.Equal(t, "creator", user.LinkedAccounts[0].Handle)

	cases := []struct {
		body   string
		status int
	}{
		{`{"platform":"tiktok","handle":"creator","userId":"whop_bio"}`, http.StatusBadRequest},
		{`{"platform":"youtube","handle":"creator","code":"` + code + `","userId":"whop_bio"}`, http.StatusNotImplemented},
		{`{"platform":"tiktok","handle":"ghost","code":"` + code + `","userId":"whop_bio"}`, http.StatusNotFound},
		{`{"platform":"tiktok","handle":"creator","code":"WHOP-ZZZZZZ","userId":"whop_bio"}`, http.StatusBadRequest},
		{`{"platform":"tiktok","handle":"creator","code":"` + code + `","userId":"nobody"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		w = a.do(t, http.MethodPost, "/api/verify-bio", []byte(tc.body), nil)
		assert.Equal(t, tc.status, w.Code, tc.body)
	}
}

func TestCronUpdateMetrics(t *testing.T) {
	a := newTestApp(t)
	require.Equal(t, http.StatusOK, a.do(t, http.MethodPost, "/api/register", []byte(`{"userId":"whop_cron"}`), nil).Code)

	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/api/cron/update-metrics", nil, nil).Code)

	w := a.do(t, http.MethodGet, "/api/cron/update-metrics", nil, map[string]string{"Authorization": "Bearer " + cronSecret})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dto.RefreshResult](t, w)
	assert.True(t, res.Success)
	assert.Zero(t, res.Processed)
}

func TestPublicQueries(t *testing.T) {
	a := newTestApp(t)

	w := a.do(t, http.MethodGet, "/api/ping", nil, nil)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/rising-stars", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/top-clips?limit=5&days=3", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/top-clips?limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
