package repository

import (
	"Clipper/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LinkedAccountRepo interface {
	Upsert(ctx context.Context, account *model.LinkedAccount) error
	ListByUser(ctx context.Context, userID string) ([]*model.LinkedAccount, error)
}

type linkedAccountRepoImpl struct {
	db *gorm.DB
}

func NewLinkedAccountRepo(db *gorm.DB) LinkedAccountRepo {
	return &linkedAccountRepoImpl{db: db}
}

// Upsert 同一 (user, platform) 重新绑定时替换旧账号
func (s *linkedAccountRepoImpl) Upsert(ctx context.Context, account *model.LinkedAccount) error {
	return upsertLinkedAccount(s.db.WithContext(ctx), account)
}

func (s *linkedAccountRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.LinkedAccount, error) {
	accounts := make([]*model.LinkedAccount, 0)
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func upsertLinkedAccount(db *gorm.DB, account *model.LinkedAccount) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"handle", "platform_user_id", "updated_at"}),
	}).Create(account).Error
}
