package consts

const (
	LeaderboardCacheKey = "leaderboard:all"
	RisingStarsCacheKey = "leaderboard:rising_stars"
	MetricsUpdatedTopic = "leaderboard:updates"
)

const (
	MetricsRefreshLock = "lock:metrics:refresh"
)
