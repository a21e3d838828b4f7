package model

import "time"

type Clip struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_clips_user_url,priority:1"`
	Platform  Platform  `gorm:"type:varchar(20);not null"`
	URL       string    `gorm:"column:url;type:varchar(512);not null;uniqueIndex:idx_clips_user_url,priority:2"`
	Thumbnail string    `gorm:"type:varchar(1024);not null;default:''"`
	Views     int64     `gorm:"not null;default:0;index:idx_clips_views"`
	Likes     int64     `gorm:"not null;default:0"`
	PostedAt  time.Time `gorm:"not null;index:idx_clips_posted_at"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User *User `gorm:"foreignKey:UserID;references:ID"`
}

func (Clip) TableName() string {
	return "clips"
}
