package consts

const (
	DefaultUsername = "unknown"
)

const (
	IngestReasonLinked = "linked"
)

const (
	EventMetricsUpdated = "metrics_updated"
)

// gin.Context 中的键
const (
	WhopIDKey   = "whop_id"
	UsernameKey = "identity_username"
	AvatarKey   = "identity_avatar"
)
