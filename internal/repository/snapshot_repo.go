package repository

import (
	"Clipper/internal/model"
	"context"

	"gorm.io/gorm"
)

type SnapshotRepo interface {
	Append(ctx context.Context, snapshot *model.MetricSnapshot) error
	ListByUser(ctx context.Context, userID string) ([]*model.MetricSnapshot, error)
	ListAll(ctx context.Context) ([]*model.MetricSnapshot, error)
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return &snapshotRepoImpl{db: db}
}

func (s *snapshotRepoImpl) Append(ctx context.Context, snapshot *model.MetricSnapshot) error {
	return appendSnapshot(s.db.WithContext(ctx), snapshot)
}

// ListByUser 按时间倒序
func (s *snapshotRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.MetricSnapshot, error) {
	snapshots := make([]*model.MetricSnapshot, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (s *snapshotRepoImpl) ListAll(ctx context.Context) ([]*model.MetricSnapshot, error) {
	snapshots := make([]*model.MetricSnapshot, 0)
	err := s.db.WithContext(ctx).
		Order("user_id ASC").
		Order("timestamp DESC").
		Order("id DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// 快照只插入，ID 由数据库生成
func appendSnapshot(db *gorm.DB, snapshot *model.MetricSnapshot) error {
	snapshot.ID = 0
	return db.Create(snapshot).Error
}
