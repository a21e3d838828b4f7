package api

import (
	"Clipper/internal/api/handler"
	"Clipper/internal/api/middleware"
	"Clipper/internal/pkg/security"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler        *handler.UserHandler
	BioHandler         *handler.BioHandler
	WebhookHandler     *handler.WebhookHandler
	LeaderboardHandler *handler.LeaderboardHandler
	CronHandler        *handler.CronHandler
	WsHandler          *handler.WsHandler
}

// RouterOptions 路由中间件依赖
type RouterOptions struct {
	Identity       *security.IdentityVerifier
	IdentityHeader string
	RateLimiter    *middleware.IPRateLimiter
	CronSecret     string
	LogIndex       string
}
