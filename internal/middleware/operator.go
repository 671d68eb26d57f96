package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/auth"
)

const operatorContextKey = "operator"

// Operator returns a gin middleware that identifies the console operator.
//
// The token is taken from the access_token cookie, then the Authorization
// header, then fallbackToken (the configured service token). Claims are read
// without signature verification; the shop API verifies the token it receives.
// A malformed token never blocks the request: the operator is anonymous and
// has no admin rights.
func Operator(fallbackToken string, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		token := ""
		if v, err := c.Cookie(auth.CookieName); err == nil {
			token = strings.TrimSpace(v)
		}
		if token == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
		}
		if token == "" {
			token = fallbackToken
		}

		op := auth.Operator{Token: token}
		if token != "" {
			parsed, err := auth.ParseOperator(token)
			if err != nil {
				logger.DebugContext(c.Request.Context(), "unreadable operator token", slog.Any("error", err))
			} else {
				op = parsed
			}
		}

		c.Set(operatorContextKey, op)
		c.Request = c.Request.WithContext(auth.WithOperator(c.Request.Context(), op))
		c.Next()
	}
}

// GetOperator returns the operator stored by the Operator middleware.
func GetOperator(c *gin.Context) auth.Operator {
	if v, ok := c.Get(operatorContextKey); ok {
		if op, ok := v.(auth.Operator); ok {
			return op
		}
	}
	return auth.Operator{}
}
