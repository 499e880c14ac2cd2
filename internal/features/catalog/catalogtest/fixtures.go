// Package catalogtest seeds catalog rows for tests in dependent packages.
package catalogtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/catalog"
)

// Course inserts a course with one module holding the given number of lessons
// and returns the course id plus lesson ids in catalog order.
func Course(t testing.TB, db *gorm.DB, name string, lessons int) (uuid.UUID, []uuid.UUID) {
	t.Helper()

	course := catalog.Course{Name: name, Active: true}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	module := catalog.Module{CourseID: course.ID, Title: "Module 1", Order: 1}
	if err := db.Create(&module).Error; err != nil {
		t.Fatalf("seed module: %v", err)
	}

	ids := make([]uuid.UUID, 0, lessons)
	for i := 0; i < lessons; i++ {
		lesson := catalog.Lesson{ModuleID: module.ID, Name: fmt.Sprintf("Lesson %d", i+1), Order: i + 1}
		if err := db.Create(&lesson).Error; err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
		ids = append(ids, lesson.ID)
	}

	return course.ID, ids
}
