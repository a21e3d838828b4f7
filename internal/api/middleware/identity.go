package middleware

import (
	"Clipper/internal/pkg/consts"
	"Clipper/internal/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
)

// IdentityOptionalMiddleware 可选身份：令牌有效时注入 whopId，缺失或无效时不注入
func IdentityOptionalMiddleware(verifier *security.IdentityVerifier, header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil || !verifier.Enabled() {
			c.Next()
			return
		}

		token := strings.TrimSpace(c.GetHeader(header))
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			c.Next()
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err == nil {
			c.Set(consts.WhopIDKey, claims.Subject)
			c.Set(consts.UsernameKey, claims.Username)
			c.Set(consts.AvatarKey, claims.Avatar)
		}

		c.Next()
	}
}
