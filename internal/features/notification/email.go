package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Mailer sends the achievement emails.
type Mailer interface {
	SendCertificateIssued(to, courseName, verificationCode, verifyURL string) error
	SendBadgeEarned(to, badgeName string, points int) error
}

// EmailNotifier mails achievements to the user's address on file.
type EmailNotifier struct {
	directory Directory
	mailer    Mailer
	verifyURL string
	logger    *slog.Logger
}

// NewEmailNotifier constructs an email channel. verifyURL is the public page
// certificates link to; the code is appended as the last path segment.
func NewEmailNotifier(directory Directory, mailer Mailer, verifyURL string, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{directory: directory, mailer: mailer, verifyURL: verifyURL, logger: logger}
}

// Notify sends the email for kind. Unknown kinds are not delivered.
func (n *EmailNotifier) Notify(ctx context.Context, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) bool {
	delivered := n.send(ctx, userID, kind, payload)
	metrics.Notification("email", string(kind), delivered)
	return delivered
}

func (n *EmailNotifier) send(ctx context.Context, userID uuid.UUID, kind types.TemplateKind, payload map[string]any) bool {
	log := n.logger.With(slog.String("userId", userID.String()), slog.String("kind", string(kind)))

	to, err := n.directory.Email(ctx, userID)
	if err != nil {
		log.WarnContext(ctx, "notification email lookup failed", slog.String("error", err.Error()))
		return false
	}
	if to == "" {
		log.WarnContext(ctx, "notification skipped: no email on file")
		return false
	}

	switch kind {
	case types.TemplateCertificateIssued:
		err = n.mailer.SendCertificateIssued(to, stringValue(payload, KeyCourseName), stringValue(payload, KeyVerificationCode), n.verifyURL)
	case types.TemplateBadgeEarned:
		err = n.mailer.SendBadgeEarned(to, stringValue(payload, KeyBadgeName), intValue(payload, KeyPoints))
	default:
		log.WarnContext(ctx, "notification skipped: unknown template")
		return false
	}

	if err != nil {
		log.WarnContext(ctx, "notification email failed", slog.String("error", err.Error()))
		return false
	}
	return true
}
