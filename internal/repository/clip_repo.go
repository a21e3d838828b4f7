package repository

import (
	"Clipper/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClipRepo interface {
	Upsert(ctx context.Context, clips []*model.Clip) error
	ListByUser(ctx context.Context, userID string) ([]*model.Clip, error)
	TopSince(ctx context.Context, since time.Time, limit int) ([]*model.Clip, error)
}

type clipRepoImpl struct {
	db *gorm.DB
}

func NewClipRepo(db *gorm.DB) ClipRepo {
	return &clipRepoImpl{db: db}
}

func (s *clipRepoImpl) Upsert(ctx context.Context, clips []*model.Clip) error {
	return upsertClips(s.db.WithContext(ctx), clips)
}

func (s *clipRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Clip, error) {
	clips := make([]*model.Clip, 0)
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("posted_at DESC").Find(&clips).Error
	if err != nil {
		return nil, err
	}
	return clips, nil
}

// TopSince 指定时间之后发布的作品，按播放量倒序，附带作者
func (s *clipRepoImpl) TopSince(ctx context.Context, since time.Time, limit int) ([]*model.Clip, error) {
	clips := make([]*model.Clip, 0)
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("posted_at >= ?", since).
		Order("views DESC").
		Order("id ASC").
		Limit(limit).
		Find(&clips).Error
	if err != nil {
		return nil, err
	}
	return clips, nil
}

func upsertClips(db *gorm.DB, clips []*model.Clip) error {
	if len(clips) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "thumbnail", "views", "likes", "posted_at", "updated_at"}),
	}).Omit("User").Create(&clips).Error
}
