package model

import "time"

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	// PlatformTwitter 预留，当前不支持
	PlatformTwitter Platform = "twitter"
)

// ParsePlatform 校验平台标识
func ParsePlatform(v string) (Platform, bool) {
	switch p := Platform(v); p {
	case PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformTwitter:
		return p, true
	default:
		return "", false
	}
}

type LinkedAccount struct {
	ID             uint64    `gorm:"primaryKey"`
	UserID         string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_linked_user_platform,priority:1"`
	Platform       Platform  `gorm:"type:varchar(20);not null;uniqueIndex:idx_linked_user_platform,priority:2"`
	Handle         string    `gorm:"type:varchar(100);not null"`
	PlatformUserID string    `gorm:"type:varchar(100);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (LinkedAccount) TableName() string {
	return "linked_accounts"
}
