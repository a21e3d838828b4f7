package service

import (
	"Clipper/internal/api/dto"
	"Clipper/internal/model"
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/util"
	"sort"
	"time"
)

const (
	risingStarsWindow = 7 * 24 * time.Hour
	risingStarsLimit  = 5
)

// computeRisingStars 当前快照与窗口起点快照的粉丝增长率排名
func computeRisingStars(users []*model.User, snapshots []*model.MetricSnapshot, now time.Time) []*dto.RisingStarDTO {
	byUser := make(map[string][]*model.MetricSnapshot)
	for _, snap := range snapshots {
		byUser[snap.UserID] = append(byUser[snap.UserID], snap)
	}

	cutoff := now.Add(-risingStarsWindow)
	stars := make([]*dto.RisingStarDTO, 0)
	for _, user := range users {
		series := byUser[user.ID]
		if len(series) < 2 {
			continue
		}
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Timestamp.After(series[j].Timestamp)
		})

		current := series[0]
		baseline := series[len(series)-1]
		for _, snap := range series {
			if !snap.Timestamp.After(cutoff) {
				baseline = snap
				break
			}
		}
		if baseline.Followers == 0 {
			continue
		}

		diff := current.Followers - baseline.Followers
		stars = append(stars, &dto.RisingStarDTO{
			ID:            user.ID,
			Username:      displayName(user),
			Avatar:        user.Avatar,
			GrowthPercent: util.RoundHalfUp(float64(diff) / float64(baseline.Followers) * 100),
			NewFollowers:  diff,
		})
	}

	sort.SliceStable(stars, func(i, j int) bool {
		return stars[i].GrowthPercent > stars[j].GrowthPercent
	})
	if len(stars) > risingStarsLimit {
		stars = stars[:risingStarsLimit]
	}
	return stars
}

// displayName 第一个绑定账号的 handle，其次用户名
func displayName(user *model.User) string {
	if len(user.LinkedAccounts) > 0 && user.LinkedAccounts[0].Handle != "" {
		return user.LinkedAccounts[0].Handle
	}
	if user.Username != "" {
		return user.Username
	}
	return consts.DefaultUsername
}
