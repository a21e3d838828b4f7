package model

type Achievement struct {
	ID            uint64 `gorm:"primaryKey"`
	UserID        string `gorm:"type:varchar(36);not null;index:idx_achievements_user"`
	AchievementID string `gorm:"type:varchar(64);not null"`
	Name          string `gorm:"type:varchar(100);not null"`
	Icon          string `gorm:"type:varchar(255);not null;default:''"`
	Date          int64  `gorm:"not null;default:0"`
}

func (Achievement) TableName() string {
	return "achievements"
}
