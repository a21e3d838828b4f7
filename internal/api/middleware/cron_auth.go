package middleware

import (
	"Clipper/internal/pkg/response"
	"Clipper/internal/service"
	"crypto/subtle"

	"github.com/gin-gonic/gin"
)

// CronAuthMiddleware 配置了 cron secret 时要求 Authorization: Bearer <secret>
func CronAuthMiddleware(secret string) gin.HandlerFunc {
	expected := []byte("Bearer " + secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		got := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			response.Error(c, service.UnauthorizedError)
			return
		}
		c.Next()
	}
}
