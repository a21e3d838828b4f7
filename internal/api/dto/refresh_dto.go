package dto

// RefreshDetail 单个账号的刷新结果
type RefreshDetail struct {
	User        string `json:"user"`
	Platform    string `json:"platform"`
	Status      string `json:"status"`
	Followers   *int64 `json:"followers,omitempty"`
	RecentViews *int64 `json:"recentViews,omitempty"`
	Error       string `json:"error,omitempty"`
}

type RefreshResult struct {
	Success   bool            `json:"success"`
	Processed int             `json:"processed"`
	Details   []RefreshDetail `json:"details"`
}
