package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/internal/utils/jwt"
	"github.com/mo-amir99/lms-progress-server-go/pkg/response"
)

const userIDKey = "auth_user_id"

// Authenticate validates the bearer token and stores the caller's user id in
// the gin context. Roles and divisions are enforced by the gateway, not here.
func Authenticate(jwtSecret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			response.ErrorWithLog(logger, c, http.StatusUnauthorized, "Access denied. No token provided.", nil)
			c.Abort()
			return
		}

		claims, err := jwt.VerifyToken(token, jwtSecret)
		if err != nil {
			message := "Invalid token."
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token expired."
			}
			response.ErrorWithLog(logger, c, http.StatusUnauthorized, message, nil)
			c.Abort()
			return
		}

		SetUserID(c, claims.UserID)
		c.Next()
	}
}

// SetUserID records the authenticated user on the context.
func SetUserID(c *gin.Context, id uuid.UUID) {
	c.Set(userIDKey, id)
}

// GetUserID returns the authenticated user id, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func extractBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
