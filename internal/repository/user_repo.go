package repository

import (
	"Clipper/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByWhopID(ctx context.Context, whopID string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id string, username string, avatar string) error
	SetOTP(ctx context.Context, id string, otp string, expires int64) error
	ExistsActiveOTP(ctx context.Context, otp string, excludeUserID string, now int64) (bool, error)
	GetUserByOTP(ctx context.Context, otp string) (*model.User, error)
	ClaimOTPAndLink(ctx context.Context, userID string, otp string, account *model.LinkedAccount) (bool, error)
	ListLinkedUsers(ctx context.Context) ([]*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) preloadAll(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LinkedAccounts", func(db *gorm.DB) *gorm.DB { return db.Order("linked_accounts.id ASC") }).
		Preload("Metrics").
		Preload("Achievements", func(db *gorm.DB) *gorm.DB { return db.Order("achievements.date ASC") })
}

func (s *UserRepoImpl) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := s.preloadAll(s.db.WithContext(ctx)).Where("id = ?", id).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByWhopID(ctx context.Context, whopID string) (*model.User, error) {
	user := &model.User{}
	err := s.preloadAll(s.db.WithContext(ctx)).Where("whop_id = ?", whopID).First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// CreateUser 同时创建空的聚合指标行
func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		metrics := &model.Metrics{UserID: user.ID}
		if err := tx.Create(metrics).Error; err != nil {
			return err
		}
		user.Metrics = metrics
		return nil
	})
}

func (s *UserRepoImpl) UpdateProfile(ctx context.Context, id string, username string, avatar string) error {
	updates := map[string]interface{}{}
	if username != "" {
		updates["username"] = username
	}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error
}

// SetOTP 覆盖旧验证码，每个用户至多一个
func (s *UserRepoImpl) SetOTP(ctx context.Context, id string, otp string, expires int64) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"otp":         otp,
		"otp_expires": expires,
	}).Error
}

func (s *UserRepoImpl) ExistsActiveOTP(ctx context.Context, otp string, excludeUserID string, now int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("otp = ? AND otp_expires > ? AND id <> ?", otp, now, excludeUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserByOTP 多个用户持有相同验证码时取最近签发的
func (s *UserRepoImpl) GetUserByOTP(ctx context.Context, otp string) (*model.User, error) {
	user := &model.User{}
	err := s.db.WithContext(ctx).
		Where("otp = ?", otp).
		Order("otp_expires DESC").
		First(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ClaimOTPAndLink 条件更新抢占验证码，成功后在同一事务内绑定账号
func (s *UserRepoImpl) ClaimOTPAndLink(ctx context.Context, userID string, otp string, account *model.LinkedAccount) (bool, error) {
	claimed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("id = ? AND otp = ?", userID, otp).
			Updates(map[string]interface{}{
				"otp":         nil,
				"otp_expires": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return nil
		}
		account.UserID = userID
		if err := upsertLinkedAccount(tx, account); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}

// ListLinkedUsers 已绑定至少一个账号的用户，按 views 倒序
func (s *UserRepoImpl) ListLinkedUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := s.preloadAll(s.db.WithContext(ctx)).
		Select("users.*").
		Joins("LEFT JOIN metrics ON metrics.user_id = users.id").
		Where("EXISTS (SELECT 1 FROM linked_accounts la WHERE la.user_id = users.id)").
		Order("COALESCE(metrics.views, 0) DESC").
		Order("users.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListUsers 全部用户及其绑定账号，按创建时间
func (s *UserRepoImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := s.db.WithContext(ctx).
		Preload("LinkedAccounts", func(db *gorm.DB) *gorm.DB { return db.Order("linked_accounts.id ASC") }).
		Order("created_at ASC").
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
