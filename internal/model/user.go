package model

import (
	"time"
)

type User struct {
	ID         string  `gorm:"type:varchar(36);primaryKey"`
	WhopID     string  `gorm:"type:varchar(64);not null;uniqueIndex:idx_users_whop_id"`
	Username   string  `gorm:"type:varchar(100);not null;default:''"`
	Avatar     string  `gorm:"type:varchar(512);not null;default:''"`
	OTP        *string `gorm:"column:otp;type:varchar(6);index:idx_users_otp"`
	OTPExpires *int64  `gorm:"column:otp_expires"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	LinkedAccounts []LinkedAccount `gorm:"foreignKey:UserID;references:ID"`
	Metrics        *Metrics        `gorm:"foreignKey:UserID;references:ID"`
	Achievements   []Achievement   `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// HasLinkedAccount 是否已绑定任意社交账号
func (u *User) HasLinkedAccount() bool {
	return len(u.LinkedAccounts) > 0
}
