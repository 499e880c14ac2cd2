package completion

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// LessonCompletion records that a user finished a lesson.
// (user_id, lesson_id) is unique and completed never flips back to false.
type LessonCompletion struct {
	types.BaseModel

	UserID    uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_lesson_completion_user_lesson,priority:1" json:"userId"`
	LessonID  uuid.UUID `gorm:"type:uuid;not null;column:lesson_id;uniqueIndex:idx_lesson_completion_user_lesson,priority:2;index" json:"lessonId"`
	Completed bool      `gorm:"type:boolean;not null;default:false" json:"completed"`
}

// TableName overrides the default table name.
func (LessonCompletion) TableName() string { return "lesson_completions" }

// Migrate creates the lesson_completions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&LessonCompletion{})
}
