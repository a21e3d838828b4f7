package service

import (
	"Clipper/internal/api/config"
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/scraper"
	"Clipper/internal/pkg/scraper/scrapertest"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefresh(f *fixture, fake scraper.Scraper) RefreshService {
	ingest := newIngest(f, fake, &recordingNotifier{}, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	return NewRefreshService(f.users, ingest, f.rdb, config.RefreshConfig{Concurrency: 3, LockTTL: 60})
}

func TestRefreshAllDetailsInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := &model.User{ID: uuid.NewString(), WhopID: "whop_a", CreatedAt: time.Now().Add(-time.Hour)}
	second := &model.User{ID: uuid.NewString(), WhopID: "whop_b"}
	require.NoError(t, f.users.CreateUser(ctx, first))
	require.NoError(t, f.users.CreateUser(ctx, second))
	require.NoError(t, f.users.CreateUser(ctx, &model.User{ID: uuid.NewString(), WhopID: "whop_unlinked"}))

	require.NoError(t, f.accounts.Upsert(ctx, &model.LinkedAccount{UserID: first.ID, Platform: model.PlatformInstagram, Handle: "ig_a", PlatformUserID: "1"}))
	require.NoError(t, f.accounts.Upsert(ctx, &model.LinkedAccount{UserID: first.ID, Platform: model.PlatformYouTube, Handle: "yt_a", PlatformUserID: "yt_a"}))
	require.NoError(t, f.accounts.Upsert(ctx, &model.LinkedAccount{UserID: second.ID, Platform: model.PlatformTikTok, Handle: "tt_b", PlatformUserID: "tt_b"}))

	fake := scrapertest.New()
	fake.Set(model.PlatformInstagram, "ig_a", &scraper.SocialMetrics{
		Followers:   42,
		RecentPosts: []scraper.Post{{URL: "https://ig/p/1", Views: 7}},
	})
	fake.Fail(model.PlatformYouTube, "yt_a", scraper.ErrPlatformUnsupported)

	res, err := newRefresh(f, fake).RefreshAll(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Processed)
	require.Len(t, res.Details, 3)

	ig := res.Details[0]
	assert.Equal(t, "whop_a", ig.User)
	assert.Equal(t, "instagram", ig.Platform)
	assert.Equal(t, "success", ig.Status)
	require.NotNil(t, ig.Followers)
	assert.Equal(t, int64(42), *ig.Followers)
	assert.Equal(t, int64(7), *ig.RecentViews)

	yt := res.Details[1]
	assert.Equal(t, "youtube", yt.Platform)
	assert.Equal(t, "unsupported", yt.Status)
	assert.Nil(t, yt.Followers)

	tt := res.Details[2]
	assert.Equal(t, "whop_b", tt.User)
	assert.Equal(t, "failed_scrape", tt.Status)

	assert.False(t, f.mr.Exists(consts.MetricsRefreshLock), "lock released")

	metrics, err := f.metrics.GetByUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), metrics.Views)
}

func TestRefreshAllEmpty(t *testing.T) {
	f := newFixture(t)

	res, err := newRefresh(f, scrapertest.New()).RefreshAll(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Zero(t, res.Processed)
	assert.Empty(t, res.Details)
}

func TestRefreshAllRejectsConcurrentRun(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mr.Set(consts.MetricsRefreshLock, "other"))

	_, err := newRefresh(f, scrapertest.New()).RefreshAll(context.Background())
	assert.ErrorIs(t, err, ErrRefreshRunning)

	value, err := f.mr.Get(consts.MetricsRefreshLock)
	require.NoError(t, err)
	assert.Equal(t, "other", value, "foreign lock untouched")
}
