package validation

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
)

// ParseID parses a UUID, rejecting the nil UUID. label names the value in the
// error message, e.g. "lesson id".
func ParseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperrors.Validation("invalid " + label)
	}
	return id, nil
}

// PathID parses the named route parameter as a UUID.
func PathID(c *gin.Context, param, label string) (uuid.UUID, error) {
	return ParseID(c.Param(param), label)
}
