package enrollment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// CompleteProgress is the stored progress of a finished course.
const CompleteProgress = 100

// Enrollment links a user to a course. StoredProgress caches the last computed
// percentage; the completion rows remain the source of truth.
type Enrollment struct {
	types.BaseModel

	UserID         uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_enrollment_user_course,priority:1;index:idx_enrollment_user_progress,priority:1" json:"userId"`
	CourseID       uuid.UUID `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_enrollment_user_course,priority:2" json:"courseId"`
	StoredProgress int       `gorm:"type:int;not null;default:0;column:stored_progress;index:idx_enrollment_user_progress,priority:2" json:"progress"`
	EnrolledAt     time.Time `gorm:"type:timestamp;not null;column:enrolled_at" json:"enrolledAt"`
}

// TableName overrides the default table name.
func (Enrollment) TableName() string { return "enrollments" }

// Migrate creates the enrollments table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Enrollment{})
}
