package enrollment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
)

// Store reads enrollments and writes the stored progress cache.
// Enrollments themselves are created by the enrollment flow, not here.
type Store struct {
	db *gorm.DB
}

// NewStore constructs an enrollment store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get loads the enrollment for (user, course). found is false when absent.
func (s *Store) Get(ctx context.Context, userID, courseID uuid.UUID) (Enrollment, bool, error) {
	var row Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&row).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return Enrollment{}, false, nil
		}
		return Enrollment{}, false, fmt.Errorf("load enrollment: %w", err)
	}
	return row, true, nil
}

// SetStoredProgress writes the progress cache. It reports whether an
// enrollment row existed to receive the value. A completed enrollment keeps
// its 100 so a slower concurrent completion cannot pull it back below the
// badge threshold.
func (s *Store) SetStoredProgress(ctx context.Context, userID, courseID uuid.UUID, progress int) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("stored_progress", gorm.Expr(
			"CASE WHEN stored_progress >= ? THEN stored_progress ELSE ? END",
			CompleteProgress, progress,
		))
	if result.Error != nil {
		return false, fmt.Errorf("update stored progress: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountCompletedCourses counts the user's enrollments at 100%.
func (s *Store) CountCompletedCourses(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("user_id = ? AND stored_progress >= ?", userID, CompleteProgress).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count completed courses: %w", err)
	}
	return int(count), nil
}

// UsersWithCompletedCourses lists every user holding at least one completed enrollment.
func (s *Store) UsersWithCompletedCourses(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.db.WithContext(ctx).
		Model(&Enrollment{}).
		Where("stored_progress >= ?", CompleteProgress).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list users with completed courses: %w", err)
	}
	return ids, nil
}
