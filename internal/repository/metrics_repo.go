package repository

import (
	"Clipper/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngestionRecord 一次成功抓取需要落库的全部数据
type IngestionRecord struct {
	UserID   string
	Views    int64
	Snapshot *model.MetricSnapshot
	Clips    []*model.Clip
}

type MetricsRepo interface {
	GetByUser(ctx context.Context, userID string) (*model.Metrics, error)
	SaveIngestion(ctx context.Context, record *IngestionRecord) error
}

type metricsRepoImpl struct {
	db *gorm.DB
}

func NewMetricsRepo(db *gorm.DB) MetricsRepo {
	return &metricsRepoImpl{db: db}
}

func (s *metricsRepoImpl) GetByUser(ctx context.Context, userID string) (*model.Metrics, error) {
	var metrics model.Metrics
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&metrics).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metrics, nil
}

// SaveIngestion 覆盖 views（shares/earnings 保留），追加快照，按 (user, url) 更新作品
func (s *metricsRepoImpl) SaveIngestion(ctx context.Context, record *IngestionRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		metrics := &model.Metrics{UserID: record.UserID, Views: record.Views}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"views", "updated_at"}),
		}).Create(metrics).Error
		if err != nil {
			return err
		}

		if record.Snapshot != nil {
			if err = appendSnapshot(tx, record.Snapshot); err != nil {
				return err
			}
		}

		return upsertClips(tx, record.Clips)
	})
}
