package dto

type RisingStarDTO struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	GrowthPercent int64  `json:"growthPercent"`
	NewFollowers  int64  `json:"newFollowers"`
}

type ClipDTO struct {
	Platform  string     `json:"platform"`
	URL       string     `json:"url"`
	Thumbnail string     `json:"thumbnail"`
	Views     int64      `json:"views"`
	Likes     int64      `json:"likes"`
	PostedAt  string     `json:"postedAt" copier:"-"`
	Creator   CreatorDTO `json:"creator" copier:"-"`
}

type CreatorDTO struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// TopClipsQuery 热门作品查询参数
type TopClipsQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1"`
	Days  int `form:"days" validate:"omitempty,min=1,max=365"`
}

// MetricsUpdatedEvent 实时榜单推送
type MetricsUpdatedEvent struct {
	Type        string `json:"type"`
	UserID      string `json:"userId"`
	Platform    string `json:"platform"`
	Followers   int64  `json:"followers"`
	RecentViews int64  `json:"recentViews"`
	At          int64  `json:"at"`
}
