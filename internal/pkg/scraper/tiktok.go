package scraper

import "time"

// NormalizeTikTok 每条记录是一条视频，作者信息内嵌在 authorMeta
func NormalizeTikTok(items []Item, now time.Time) (*SocialMetrics, error) {
	if len(items) == 0 {
		return nil, ErrProfileNotFound
	}

	var author Item
	for _, item := range items {
		meta := objectField(item, "authorMeta")
		if meta != nil && (has(meta, "fans") || has(meta, "signature")) {
			author = meta
			break
		}
	}
	if author == nil {
		return nil, ErrProfileNotFound
	}

	var posts []Post
	for _, item := range items {
		if !has(item, "id") && !has(item, "webVideoUrl") {
			continue
		}
		url := stringField(item, "webVideoUrl")
		if url == "" {
			continue
		}
		posts = append(posts, Post{
			URL:       url,
			Thumbnail: stringField(objectField(item, "videoMeta"), "coverUrl"),
			Views:     intField(item, "playCount"),
			Likes:     intField(item, "diggCount"),
			Comments:  intField(item, "commentCount"),
			PostedAt:  timeField(item, "createTimeISO", now),
		})
	}

	return &SocialMetrics{
		Followers:   intField(author, "fans"),
		Following:   intField(author, "following"),
		PostsCount:  intField(author, "video"),
		Bio:         stringField(author, "signature"),
		RecentPosts: capRecent(posts),
	}, nil
}
