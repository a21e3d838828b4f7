package model

import "time"

// MetricSnapshot 只追加，不修改
type MetricSnapshot struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_snapshots_user_time,priority:1"`
	Views     int64     `gorm:"not null;default:0"`
	Followers int64     `gorm:"not null;default:0"`
	Timestamp time.Time `gorm:"not null;index:idx_snapshots_user_time,priority:2"`
}

func (MetricSnapshot) TableName() string {
	return "metric_snapshots"
}
