package progress

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/enrollment"
)

// CatalogReader lists the lessons of a course.
type CatalogReader interface {
	CourseLessonIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
}

// CompletionReader answers completion questions for a user.
type CompletionReader interface {
	CountCompleted(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, error)
	CompletedLessonIDs(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]uuid.UUID, error)
}

// EnrollmentReader loads the stored progress cache.
type EnrollmentReader interface {
	Get(ctx context.Context, userID, courseID uuid.UUID) (enrollment.Enrollment, bool, error)
}

// Snapshot is a freshly computed view of a user's progress in one course.
type Snapshot struct {
	CourseID           uuid.UUID   `json:"courseId"`
	Progress           int         `json:"progress"`
	TotalLessons       int         `json:"totalLessons"`
	CompletedLessons   int         `json:"completedLessons"`
	CompletedLessonIDs []uuid.UUID `json:"completedLessonIds"`
}

// Options tunes the display policy of CourseProgress.
type Options struct {
	StoredFloor bool
}

// Service recomputes progress from completion rows on every call.
type Service struct {
	catalog     CatalogReader
	completions CompletionReader
	enrollments EnrollmentReader
	opts        Options
	logger      *slog.Logger
}

// NewService constructs a progress service.
func NewService(catalog CatalogReader, completions CompletionReader, enrollments EnrollmentReader, opts Options, logger *slog.Logger) *Service {
	return &Service{
		catalog:     catalog,
		completions: completions,
		enrollments: enrollments,
		opts:        opts,
		logger:      logger,
	}
}

// Compute returns the raw percentage for a known lesson set, without any
// display policy. The completion pipeline decides on this value.
func (s *Service) Compute(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, int, error) {
	completed, err := s.completions.CountCompleted(ctx, userID, lessonIDs)
	if err != nil {
		return 0, 0, err
	}
	return Calculate(len(lessonIDs), completed, 0), completed, nil
}

// CourseProgress returns the user's progress in a course as shown to clients.
func (s *Service) CourseProgress(ctx context.Context, userID, courseID uuid.UUID) (int, error) {
	snap, err := s.Snapshot(ctx, userID, courseID)
	if err != nil {
		return 0, err
	}
	return snap.Progress, nil
}

// Snapshot computes the full progress view for a course.
func (s *Service) Snapshot(ctx context.Context, userID, courseID uuid.UUID) (Snapshot, error) {
	lessonIDs, err := s.catalog.CourseLessonIDs(ctx, courseID)
	if err != nil {
		return Snapshot{}, err
	}

	completedIDs, err := s.completions.CompletedLessonIDs(ctx, userID, lessonIDs)
	if err != nil {
		return Snapshot{}, err
	}

	stored := 0
	if s.opts.StoredFloor {
		row, found, err := s.enrollments.Get(ctx, userID, courseID)
		if err != nil {
			return Snapshot{}, err
		}
		if found {
			stored = row.StoredProgress
		}
	}

	value := Calculate(len(lessonIDs), len(completedIDs), stored)
	if s.opts.StoredFloor {
		floored := ApplyStoredFloor(value, stored)
		if floored != value {
			s.logger.DebugContext(ctx, "progress masked by stored floor",
				slog.String("userId", userID.String()),
				slog.String("courseId", courseID.String()),
				slog.Int("computed", value),
				slog.Int("stored", stored),
			)
		}
		value = floored
	}

	return Snapshot{
		CourseID:           courseID,
		Progress:           value,
		TotalLessons:       len(lessonIDs),
		CompletedLessons:   len(completedIDs),
		CompletedLessonIDs: completedIDs,
	}, nil
}
