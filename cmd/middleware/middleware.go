package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"

	"expoDesk/internal/auth"
	"expoDesk/internal/dto"
)

const (
	RequestIDHeader = "X-Request-ID"
	AdminKey        = "admin"
)

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		zlog.Logger.Info().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AdminAuth rejects requests without a valid admin bearer token.
func AdminAuth(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			dto.UnauthorizedError(c, "Missing bearer token")
			c.Abort()
			return
		}

		claims, err := v.Validate(strings.TrimSpace(token))
		if err != nil {
			desc := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				desc = "Token has expired"
			}
			dto.UnauthorizedError(c, desc)
			c.Abort()
			return
		}

		c.Set(AdminKey, claims.Subject)
		c.Next()
	}
}
