package scraper

import (
	"Clipper/internal/model"
	"context"
	"errors"
	"sort"
	"time"
)

// MaxRecentPosts 每次保留的最近作品数
const MaxRecentPosts = 10

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrScrapeFailed        = errors.New("scrape failed")
	ErrPlatformUnsupported = errors.New("platform not supported by scraper")
)

// Post 单条作品
type Post struct {
	URL       string
	Thumbnail string
	Views     int64
	Likes     int64
	Comments  int64
	PostedAt  time.Time
}

// SocialMetrics 统一后的主页指标
type SocialMetrics struct {
	Followers   int64
	Following   int64
	PostsCount  int64
	Bio         string
	RecentPosts []Post
}

// RecentViews 最近作品播放量之和
func (m *SocialMetrics) RecentViews() int64 {
	var total int64
	for _, p := range m.RecentPosts {
		total += p.Views
	}
	return total
}

// Scraper 拉取公开主页指标；失败时返回错误，不能当作零值处理
type Scraper interface {
	FetchProfile(ctx context.Context, platform model.Platform, handle string) (*SocialMetrics, error)
}

// capRecent 按发布时间倒序（稳定）后截取
func capRecent(posts []Post) []Post {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PostedAt.After(posts[j].PostedAt)
	})
	if len(posts) > MaxRecentPosts {
		posts = posts[:MaxRecentPosts]
	}
	return posts
}
