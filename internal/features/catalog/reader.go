package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
)

// Reader answers the catalog questions the progress pipeline needs.
type Reader struct {
	db *gorm.DB
}

// NewReader constructs a catalog reader.
func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// LessonCourse resolves the course a lesson belongs to.
func (r *Reader) LessonCourse(ctx context.Context, lessonID uuid.UUID) (uuid.UUID, error) {
	var row struct {
		CourseID uuid.UUID
	}

	err := r.db.WithContext(ctx).
		Table("lessons").
		Select("course_modules.course_id AS course_id").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("lessons.id = ?", lessonID).
		Take(&row).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return uuid.Nil, ErrLessonNotFound
		}
		return uuid.Nil, fmt.Errorf("resolve lesson course: %w", err)
	}

	return row.CourseID, nil
}

// CourseLessonIDs returns every lesson id of a course ordered by module then lesson order.
func (r *Reader) CourseLessonIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("lessons").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ?", courseID).
		Order("course_modules.\"order\" ASC, lessons.\"order\" ASC, lessons.id ASC").
		Pluck("lessons.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list course lessons: %w", err)
	}
	return ids, nil
}

// CourseExists reports whether the course is present in the catalog.
func (r *Reader) CourseExists(ctx context.Context, courseID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check course: %w", err)
	}
	return count > 0, nil
}

// CourseName returns the display name of a course, or "" when unknown.
func (r *Reader) CourseName(ctx context.Context, courseID uuid.UUID) (string, error) {
	var course Course
	err := r.db.WithContext(ctx).Select("id", "name").Take(&course, "id = ?", courseID).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("load course name: %w", err)
	}
	return course.Name, nil
}
