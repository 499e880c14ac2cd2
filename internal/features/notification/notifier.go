// Package notification delivers best-effort achievement notices. Delivery
// failures are logged and reported as false; they never become errors.
package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Payload keys shared by producers and channels.
const (
	KeyCourseID         = "courseId"
	KeyCourseName       = "courseName"
	KeyCertificateID    = "certificateId"
	KeyVerificationCode = "verificationCode"
	KeyIssuedAt         = "issuedAt"
	KeyBadgeID          = "badgeId"
	KeyBadgeName        = "badgeName"
	KeyPoints           = "points"
)

// Notifier delivers a templated notice to a user and reports success.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) bool
}

// Nop drops every notification.
type Nop struct{}

// Notify always reports failure since nothing was delivered.
func (Nop) Notify(context.Context, uuid.UUID, types.TemplateKind, map[string]any) bool {
	return false
}

// Multi fans a notification out to several channels.
type Multi struct {
	channels []Notifier
	logger   *slog.Logger
}

// NewMulti combines channels; nil entries are skipped.
func NewMulti(logger *slog.Logger, channels ...Notifier) *Multi {
	kept := make([]Notifier, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			kept = append(kept, ch)
		}
	}
	return &Multi{channels: kept, logger: logger}
}

// Notify reports true when at least one channel delivered.
func (m *Multi) Notify(ctx context.Context, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) bool {
	delivered := false
	for _, ch := range m.channels {
		if m.safeNotify(ctx, ch, userID, kind, payload) {
			delivered = true
		}
	}
	return delivered
}

func (m *Multi) safeNotify(ctx context.Context, ch Notifier, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.ErrorContext(ctx, "notification channel panicked",
				slog.String("kind", string(kind)),
				slog.Any("panic", r),
			)
			ok = false
		}
	}()
	return ch.Notify(ctx, userID, kind, payload)
}

func stringValue(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func intValue(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
