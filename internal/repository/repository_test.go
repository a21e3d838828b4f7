package repository

import (
	"Clipper/internal/model"
	"Clipper/internal/pkg/database/databasetest"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, repo UserRepo, whopID string) *model.User {
	t.Helper()
	user := &model.User{ID: uuid.NewString(), WhopID: whopID, Username: whopID}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestUserRepoCreateAndGet(t *testing.T) {
	db := databasetest.NewSQLite(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	user := createUser(t, repo, "whop_1")

	got, err := repo.GetUserByWhopID(ctx, "whop_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.Metrics)
	assert.Zero(t, got.Metrics.Views)

	missing, err := repo.GetUserByWhopID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := &model.User{ID: uuid.NewString(), WhopID: "whop_1"}
	err = repo.CreateUser(ctx, dup)
	assert.True(t, IsDuplicateKey(err), "got %v", err)
}

func TestUserRepoOTPLifecycle(t *testing.T) {
	db := databasetest.NewSQLite(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	a := createUser(t, repo, "whop_a")
	b := createUser(t, repo, "whop_b")

	require.NoError(t, repo.SetOTP(ctx, a.ID, "111111", now+60_000))
	require.NoError(t, repo.SetOTP(ctx, b.ID, "111111", now+120_000))

	exists, err := repo.ExistsActiveOTP(ctx, "111111", a.ID, now)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsActiveOTP(ctx, "111111", b.ID, now+90_000)
	require.NoError(t, err)
	assert.False(t, exists, "a's code has expired by then")

	got, err := repo.GetUserByOTP(ctx, "111111")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID, "most recent issuance wins")

	claimed, err := repo.ClaimOTPAndLink(ctx, b.ID, "111111", &model.LinkedAccount{
		Platform: model.PlatformInstagram, Handle: "178", PlatformUserID: "178",
	})
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimOTPAndLink(ctx, b.ID, "111111", &model.LinkedAccount{
		Platform: model.PlatformInstagram, Handle: "999", PlatformUserID: "999",
	})
	require.NoError(t, err)
	assert.False(t, claimed, "code can only be claimed once")

	reloaded, err := repo.GetUserByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.OTP)
	assert.Nil(t, reloaded.OTPExpires)
	require.Len(t, reloaded.LinkedAccounts, 1)
	assert.Equal(t, "178", reloaded.LinkedAccounts[0].PlatformUserID)
}

func TestUserRepoReissueInvalidatesOldCode(t *testing.T) {
	db := databasetest.NewSQLite(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	u := createUser(t, repo, "whop_r")
	require.NoError(t, repo.SetOTP(ctx, u.ID, "123456", now+60_000))
	require.NoError(t, repo.SetOTP(ctx, u.ID, "654321", now+60_000))

	old, err := repo.GetUserByOTP(ctx, "123456")
	require.NoError(t, err)
	assert.Nil(t, old)

	claimed, err := repo.ClaimOTPAndLink(ctx, u.ID, "123456", &model.LinkedAccount{Platform: model.PlatformInstagram, Handle: "x", PlatformUserID: "x"})
	require.NoError(t, err)
	assert.False(t, claimed)

	accounts, err := NewLinkedAccountRepo(db).ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestLinkedAccountUpsertReplaces(t *testing.T) {
	db := databasetest.NewSQLite(t)
	users := NewUserRepo(db)
	repo := NewLinkedAccountRepo(db)
	ctx := context.Background()

	u := createUser(t, users, "whop_l")
	require.NoError(t, repo.Upsert(ctx, &model.LinkedAccount{UserID: u.ID, Platform: model.PlatformTikTok, Handle: "old", PlatformUserID: "old"}))
	require.NoError(t, repo.Upsert(ctx, &model.LinkedAccount{UserID: u.ID, Platform: model.PlatformTikTok, Handle: "new", PlatformUserID: "new"}))
	require.NoError(t, repo.Upsert(ctx, &model.LinkedAccount{UserID: u.ID, Platform: model.PlatformInstagram, Handle: "ig", PlatformUserID: "1"}))

	accounts, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "new", accounts[0].Handle)
	assert.Equal(t, model.PlatformInstagram, accounts[1].Platform)
}

func TestSaveIngestionPreservesSharesAndUpsertsClips(t *testing.T) {
	db := databasetest.NewSQLite(t)
	users := NewUserRepo(db)
	metrics := NewMetricsRepo(db)
	clips := NewClipRepo(db)
	snapshots := NewSnapshotRepo(db)
	ctx := context.Background()

	u := createUser(t, users, "whop_m")
	require.NoError(t, db.Model(&model.Metrics{}).Where("user_id = ?", u.ID).
		Updates(map[string]interface{}{"shares": 7, "earnings": 12.5}).Error)

	posted := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	record := func(views int64) *IngestionRecord {
		return &IngestionRecord{
			UserID:   u.ID,
			Views:    views,
			Snapshot: &model.MetricSnapshot{UserID: u.ID, Views: views, Followers: 10, Timestamp: time.Now().UTC()},
			Clips: []*model.Clip{{
				UserID: u.ID, Platform: model.PlatformTikTok, URL: "https://t/1", Views: views, Likes: 1, PostedAt: posted,
			}},
		}
	}

	require.NoError(t, metrics.SaveIngestion(ctx, record(100)))
	require.NoError(t, metrics.SaveIngestion(ctx, record(250)))

	m, err := metrics.GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), m.Views)
	assert.Equal(t, int64(7), m.Shares)
	assert.Equal(t, 12.5, m.Earnings)

	stored, err := clips.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(250), stored[0].Views)

	snaps, err := snapshots.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, snaps, 2, "every run appends a snapshot")
}

func TestListLinkedUsersOrdering(t *testing.T) {
	db := databasetest.NewSQLite(t)
	users := NewUserRepo(db)
	accounts := NewLinkedAccountRepo(db)
	metrics := NewMetricsRepo(db)
	ctx := context.Background()

	var ids []string
	for i, views := range []int64{10, 300, 50} {
		u := createUser(t, users, fmt.Sprintf("whop_%d", i))
		ids = append(ids, u.ID)
		require.NoError(t, accounts.Upsert(ctx, &model.LinkedAccount{UserID: u.ID, Platform: model.PlatformTikTok, Handle: "h", PlatformUserID: "h"}))
		require.NoError(t, metrics.SaveIngestion(ctx, &IngestionRecord{UserID: u.ID, Views: views}))
	}
	createUser(t, users, "whop_unlinked")

	list, err := users.ListLinkedUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Len(t, list[0].LinkedAccounts, 1)
}

func TestClipTopSince(t *testing.T) {
	db := databasetest.NewSQLite(t)
	users := NewUserRepo(db)
	repo := NewClipRepo(db)
	ctx := context.Background()

	u := createUser(t, users, "whop_c")
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, []*model.Clip{
		{UserID: u.ID, Platform: model.PlatformTikTok, URL: "old", Views: 9999, PostedAt: now.AddDate(0, 0, -20)},
		{UserID: u.ID, Platform: model.PlatformTikTok, URL: "a", Views: 10, PostedAt: now.AddDate(0, 0, -1)},
		{UserID: u.ID, Platform: model.PlatformTikTok, URL: "b", Views: 30, PostedAt: now.AddDate(0, 0, -2)},
	}))

	top, err := repo.TopSince(ctx, now.AddDate(0, 0, -7), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].URL)
	require.NotNil(t, top[0].User)
	assert.Equal(t, "whop_c", top[0].User.Username)

	top, err = repo.TopSince(ctx, now.AddDate(0, 0, -7), 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

