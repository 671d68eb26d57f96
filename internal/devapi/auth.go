package devapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/auth"
	"github.com/Thutra02/mypham-fe/internal/pkg"
)

// Authenticate reads the bearer token of each request into the request
// context. With a secret, a valid HS256 token is required. Without one, the
// token is optional and read unverified, so the role rules still apply
// during local development.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))

		if secret == "" {
			if op, err := auth.ParseOperator(raw); err == nil {
				c.Request = c.Request.WithContext(auth.WithOperator(c.Request.Context(), op))
			}
			c.Next()
			return
		}

		claims, err := auth.VerifyToken(secret, raw)
		if err != nil {
			pkg.Error(c, err)
			c.Abort()
			return
		}
		op := auth.Operator{
			Subject:  claims.Subject,
			Username: claims.Username,
			Role:     claims.Role,
			Token:    raw,
		}
		c.Request = c.Request.WithContext(auth.WithOperator(c.Request.Context(), op))
		c.Next()
	}
}
