package scraper

import (
	"fmt"
	"time"
)

const instagramPostURL = "https://www.instagram.com/p/%s/"

// NormalizeInstagram 从混合结果中找出主页记录与作品记录
func NormalizeInstagram(items []Item, now time.Time) (*SocialMetrics, error) {
	if len(items) == 0 {
		return nil, ErrProfileNotFound
	}

	profileIdx := -1
	for i, item := range items {
		if has(item, "biography") || has(item, "followersCount") {
			profileIdx = i
			break
		}
	}
	if profileIdx < 0 {
		return nil, ErrProfileNotFound
	}
	profile := items[profileIdx]
	profileID := stringField(profile, "id")

	var posts []Post
	for i, item := range items {
		if i == profileIdx {
			continue
		}
		if stringField(item, "type") != "Post" && !has(item, "shortCode") {
			continue
		}
		if profileID != "" && stringField(item, "id") == profileID {
			continue
		}
		if p, ok := instagramPost(item, now); ok {
			posts = append(posts, p)
		}
	}

	if len(posts) == 0 {
		for _, item := range objectList(profile, "latestPosts") {
			if p, ok := instagramPost(item, now); ok {
				posts = append(posts, p)
			}
		}
	}

	return &SocialMetrics{
		Followers:   intField(profile, "followersCount"),
		Following:   intField(profile, "followsCount"),
		PostsCount:  intField(profile, "postsCount"),
		Bio:         stringField(profile, "biography"),
		RecentPosts: capRecent(posts),
	}, nil
}

func instagramPost(item Item, now time.Time) (Post, bool) {
	code := firstString(item, "shortCode", "code")
	if code == "" {
		return Post{}, false
	}
	return Post{
		URL:       fmt.Sprintf(instagramPostURL, code),
		Thumbnail: firstString(item, "displayUrl", "thumbnailSrc"),
		Views:     intField(item, "videoViewCount"),
		Likes:     intField(item, "likesCount"),
		Comments:  intField(item, "commentsCount"),
		PostedAt:  timeField(item, "timestamp", now),
	}, true
}
