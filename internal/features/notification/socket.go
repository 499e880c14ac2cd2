package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Emitter pushes an event to every live connection of a user.
type Emitter interface {
	EmitToUser(userID uuid.UUID, event string, payload any) error
}

var socketEvents = map[types.TemplateKind]string{
	types.TemplateCertificateIssued: "certificateIssued",
	types.TemplateBadgeEarned:       "badgeEarned",
}

// SocketNotifier pushes achievements to connected clients.
type SocketNotifier struct {
	emitter Emitter
	logger  *slog.Logger
}

// NewSocketNotifier constructs a realtime channel.
func NewSocketNotifier(emitter Emitter, logger *slog.Logger) *SocketNotifier {
	return &SocketNotifier{emitter: emitter, logger: logger}
}

// Notify emits the event for kind. Offline users simply miss the push.
func (n *SocketNotifier) Notify(ctx context.Context, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) bool {
	event, ok := socketEvents[kind]
	if !ok {
		metrics.Notification("socket", string(kind), false)
		return false
	}

	if err := n.emitter.EmitToUser(userID, event, payload); err != nil {
		n.logger.WarnContext(ctx, "notification push failed",
			slog.String("userId", userID.String()),
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		metrics.Notification("socket", string(kind), false)
		return false
	}

	metrics.Notification("socket", string(kind), true)
	return true
}
