package certificate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/notification"
	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/pagination"
	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// CourseNamer resolves a course's display name for notices.
type CourseNamer interface {
	CourseName(ctx context.Context, courseID uuid.UUID) (string, error)
}

// Issuer creates certificates at most once per (user, course).
type Issuer struct {
	db       *gorm.DB
	courses  CourseNamer
	notifier notification.Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

// NewIssuer constructs a certificate issuer.
func NewIssuer(db *gorm.DB, courses CourseNamer, notifier notification.Notifier, clk clock.Clock, logger *slog.Logger) *Issuer {
	if clk == nil {
		clk = clock.System{}
	}
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Issuer{db: db, courses: courses, notifier: notifier, clock: clk, logger: logger}
}

// maxCodeAttempts bounds retries when a generated verification code is taken.
const maxCodeAttempts = 3

// IssueIfAbsent returns the user's certificate for the course, creating it
// when missing. created is true only for the caller whose insert won; losers
// of a concurrent race get the winner's row and created=false.
func (i *Issuer) IssueIfAbsent(ctx context.Context, userID, courseID uuid.UUID) (Certificate, bool, error) {
	existing, found, err := i.find(ctx, userID, courseID)
	if err != nil || found {
		return existing, false, err
	}

	now := i.clock.Now()
	cert := Certificate{UserID: userID, CourseID: courseID}

	for attempt := 0; ; attempt++ {
		cert.IssuedAt = now.Add(time.Duration(attempt) * time.Millisecond)
		cert.VerificationCode = VerificationCode(courseID, userID, cert.IssuedAt)

		err := i.db.WithContext(ctx).Create(&cert).Error
		if err == nil {
			break
		}
		if !dberr.IsUniqueViolation(err) {
			return Certificate{}, false, fmt.Errorf("create certificate: %w", err)
		}

		existing, found, err := i.find(ctx, userID, courseID)
		if err != nil {
			return Certificate{}, false, err
		}
		if found {
			metrics.ConflictIgnored("certificate")
			i.logger.DebugContext(ctx, "concurrent certificate issue ignored",
				slog.String("userId", userID.String()),
				slog.String("courseId", courseID.String()),
			)
			return existing, false, nil
		}

		// The conflict was on the verification code, not on (user, course).
		if attempt+1 >= maxCodeAttempts {
			return Certificate{}, false, fmt.Errorf("create certificate: verification code %s already taken", cert.VerificationCode)
		}
		i.logger.WarnContext(ctx, "verification code collision, retrying",
			slog.String("code", cert.VerificationCode),
			slog.Int("attempt", attempt+1),
		)
		cert.ID = uuid.Nil
	}

	metrics.CertificateIssued()
	i.logger.InfoContext(ctx, "certificate issued",
		slog.String("userId", userID.String()),
		slog.String("courseId", courseID.String()),
		slog.String("code", cert.VerificationCode),
	)

	i.notify(ctx, cert)
	return cert, true, nil
}

func (i *Issuer) notify(ctx context.Context, cert Certificate) {
	courseName := ""
	if i.courses != nil {
		name, err := i.courses.CourseName(ctx, cert.CourseID)
		if err != nil {
			i.logger.WarnContext(ctx, "certificate notice without course name", slog.String("error", err.Error()))
		}
		courseName = name
	}

	delivered := i.notifier.Notify(ctx, cert.UserID, types.TemplateCertificateIssued, map[string]any{
		notification.KeyCertificateID:    cert.ID.String(),
		notification.KeyCourseID:         cert.CourseID.String(),
		notification.KeyCourseName:       courseName,
		notification.KeyVerificationCode: cert.VerificationCode,
		notification.KeyIssuedAt:         cert.IssuedAt.Format(time.RFC3339),
	})
	if !delivered {
		i.logger.WarnContext(ctx, "certificate notification not delivered",
			slog.String("userId", cert.UserID.String()),
			slog.String("certificateId", cert.ID.String()),
		)
	}
}

// ListForUser returns one page of the user's certificates, newest first,
// and the user's total certificate count.
func (i *Issuer) ListForUser(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]Certificate, int64, error) {
	query := i.db.WithContext(ctx).Model(&Certificate{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count certificates: %w", err)
	}

	certs := []Certificate{}
	err := query.Scopes(page.Scope).
		Order("issued_at DESC").
		Find(&certs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list certificates: %w", err)
	}
	return certs, total, nil
}

// Verify looks a certificate up by its verification code.
func (i *Issuer) Verify(ctx context.Context, code string) (Certificate, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return Certificate{}, ErrCertificateNotFound
	}

	var cert Certificate
	err := i.db.WithContext(ctx).Where("verification_code = ?", normalized).Take(&cert).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return Certificate{}, ErrCertificateNotFound
		}
		return Certificate{}, fmt.Errorf("verify certificate: %w", err)
	}
	return cert, nil
}

func (i *Issuer) find(ctx context.Context, userID, courseID uuid.UUID) (Certificate, bool, error) {
	var cert Certificate
	err := i.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&cert).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return Certificate{}, false, nil
		}
		return Certificate{}, false, fmt.Errorf("find certificate: %w", err)
	}
	return cert, true, nil
}
