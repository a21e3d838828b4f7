package api

import (
	"Clipper/internal/api/middleware"
	"Clipper/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.IdentityHeader))
	logger.SetupGin(r, opts.LogIndex)

	limited := middleware.RateLimitMiddleware(opts.RateLimiter)
	identity := middleware.IdentityOptionalMiddleware(opts.Identity, opts.IdentityHeader)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		userGroup := apiGroup.Group("")
		userGroup.Use(identity)
		{
			userGroup.POST("/register", limited, group.UserHandler.Register)
			userGroup.GET("/user", group.UserHandler.GetUser)
		}

		bioGroup := apiGroup.Group("/verify-bio")
		bioGroup.Use(limited)
		{
			bioGroup.GET("/challenge", group.BioHandler.Challenge)
			bioGroup.POST("", group.BioHandler.Verify)
		}

		for _, path := range []string{"/webhook", "/webhook/instagram"} {
			apiGroup.GET(path, group.WebhookHandler.Verify)
			apiGroup.POST(path, group.WebhookHandler.Receive)
		}

		apiGroup.GET("/leaderboard", group.LeaderboardHandler.Leaderboard)
		apiGroup.GET("/leaderboard/live", group.WsHandler.Live)
		apiGroup.GET("/rising-stars", group.LeaderboardHandler.RisingStars)
		apiGroup.GET("/top-clips", group.LeaderboardHandler.TopClips)

		cronGroup := apiGroup.Group("/cron")
		cronGroup.Use(middleware.CronAuthMiddleware(opts.CronSecret))
		{
			cronGroup.GET("/update-metrics", group.CronHandler.UpdateMetrics)
		}
	}

	return r
}
