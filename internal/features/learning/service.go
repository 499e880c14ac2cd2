package learning

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/certificate"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/enrollment"
)

// LessonCatalog resolves lessons to courses and courses to lesson sets.
type LessonCatalog interface {
	LessonCourse(ctx context.Context, lessonID uuid.UUID) (uuid.UUID, error)
	CourseLessonIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

// CompletionWriter records lesson completion.
type CompletionWriter interface {
	MarkComplete(ctx context.Context, userID, lessonID uuid.UUID) error
}

// ProgressComputer turns completion rows into a percentage.
type ProgressComputer interface {
	Compute(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, int, error)
}

// ProgressCache stores the last computed percentage on the enrollment.
type ProgressCache interface {
	SetStoredProgress(ctx context.Context, userID, courseID uuid.UUID, progress int) (bool, error)
}

// CertificateIssuer issues at most one certificate per (user, course).
type CertificateIssuer interface {
	IssueIfAbsent(ctx context.Context, userID, courseID uuid.UUID) (certificate.Certificate, bool, error)
}

// BadgeEvaluator runs the badge cascade for a user.
type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID) ([]badge.Badge, error)
}

// Outcome is the result of completing a lesson.
type Outcome struct {
	Completed            bool      `json:"completed"`
	CourseID             uuid.UUID `json:"courseId"`
	Progress             int       `json:"progress"`
	CertificateGenerated bool      `json:"certificateGenerated"`
}

// Service runs the lesson completion pipeline. Each step is idempotent on its
// own, so a retried or duplicated call converges on the same end state
// without a transaction spanning the steps.
type Service struct {
	catalog      LessonCatalog
	completions  CompletionWriter
	progress     ProgressComputer
	enrollments  ProgressCache
	certificates CertificateIssuer
	badges       BadgeEvaluator
	logger       *slog.Logger
}

// Deps groups the collaborators of Service.
type Deps struct {
	Catalog      LessonCatalog
	Completions  CompletionWriter
	Progress     ProgressComputer
	Enrollments  ProgressCache
	Certificates CertificateIssuer
	Badges       BadgeEvaluator
}

// NewService constructs the completion pipeline.
func NewService(deps Deps, logger *slog.Logger) *Service {
	return &Service{
		catalog:      deps.Catalog,
		completions:  deps.Completions,
		progress:     deps.Progress,
		enrollments:  deps.Enrollments,
		certificates: deps.Certificates,
		badges:       deps.Badges,
		logger:       logger,
	}
}

// CompleteLesson marks the lesson done and recomputes course progress. Once
// every lesson is complete it issues the course certificate (once) and runs the badge cascade.
// CertificateGenerated is true only for the call that created the certificate.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (Outcome, error) {
	courseID, err := s.catalog.LessonCourse(ctx, lessonID)
	if err != nil {
		return Outcome{}, err
	}

	if err := s.completions.MarkComplete(ctx, userID, lessonID); err != nil {
		return Outcome{}, err
	}

	lessonIDs, err := s.catalog.CourseLessonIDs(ctx, courseID)
	if err != nil {
		return Outcome{}, err
	}

	progress, completed, err := s.progress.Compute(ctx, userID, lessonIDs)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Completed: true, CourseID: courseID, Progress: progress}
	log := s.logger.With(
		slog.String("userId", userID.String()),
		slog.String("courseId", courseID.String()),
	)

	if len(lessonIDs) == 0 || completed < len(lessonIDs) {
		// 199 of 200 rounds to 100; a stored 100 is reserved for finished courses.
		stored := min(progress, enrollment.CompleteProgress-1)
		if err := s.storeProgress(ctx, log, userID, courseID, stored); err != nil {
			return Outcome{}, err
		}
		return out, nil
	}

	_, created, err := s.certificates.IssueIfAbsent(ctx, userID, courseID)
	if err != nil {
		return Outcome{}, err
	}
	out.CertificateGenerated = created

	if err := s.storeProgress(ctx, log, userID, courseID, enrollment.CompleteProgress); err != nil {
		return Outcome{}, err
	}

	awarded, err := s.badges.Evaluate(ctx, userID)
	if err != nil {
		return Outcome{}, err
	}

	log.InfoContext(ctx, "course completed",
		slog.Bool("certificateGenerated", created),
		slog.Int("badgesAwarded", len(awarded)),
	)
	return out, nil
}

func (s *Service) storeProgress(ctx context.Context, log *slog.Logger, userID, courseID uuid.UUID, progress int) error {
	existed, err := s.enrollments.SetStoredProgress(ctx, userID, courseID, progress)
	if err != nil {
		return err
	}
	if !existed {
		log.WarnContext(ctx, "no enrollment to cache progress on", slog.Int("progress", progress))
	}
	return nil
}
