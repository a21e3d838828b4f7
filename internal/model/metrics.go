package model

import "time"

// Metrics 用户聚合指标，每个用户一行
type Metrics struct {
	ID        uint64  `gorm:"primaryKey"`
	UserID    string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_metrics_user"`
	Views     int64   `gorm:"not null;default:0"`
	Shares    int64   `gorm:"not null;default:0"`
	Earnings  float64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Metrics) TableName() string {
	return "metrics"
}
