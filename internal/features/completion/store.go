package completion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
)

// Store persists lesson completion facts. It only ever upserts.
type Store struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewStore constructs a completion store.
func NewStore(db *gorm.DB, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.System{}
	}
	return &Store{db: db, clock: clk}
}

// MarkComplete upserts LessonCompletion(user, lesson) with completed=true.
// Concurrent calls for the same pair converge on a single row.
func (s *Store) MarkComplete(ctx context.Context, userID, lessonID uuid.UUID) error {
	now := s.clock.Now()
	row := LessonCompletion{
		UserID:    userID,
		LessonID:  lessonID,
		Completed: true,
	}
	row.CreatedAt = now
	row.UpdatedAt = now

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":  true,
			"updated_at": now,
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert lesson completion: %w", err)
	}
	return nil
}

// CountCompleted counts the user's completed lessons restricted to lessonIDs.
func (s *Store) CountCompleted(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&LessonCompletion{}).
		Where("user_id = ? AND completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count completed lessons: %w", err)
	}
	return int(count), nil
}

// CompletedLessonIDs returns the subset of lessonIDs the user has completed.
func (s *Store) CompletedLessonIDs(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(lessonIDs) == 0 {
		return []uuid.UUID{}, nil
	}

	ids := []uuid.UUID{}
	err := s.db.WithContext(ctx).
		Model(&LessonCompletion{}).
		Where("user_id = ? AND completed = ? AND lesson_id IN ?", userID, true, lessonIDs).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list completed lessons: %w", err)
	}
	return ids, nil
}
