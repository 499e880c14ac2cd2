package certificate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Certificate is the durable proof that a user completed a course.
// At most one exists per (user, course).
type Certificate struct {
	types.BaseModel

	UserID           uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_certificate_user_course,priority:1" json:"userId"`
	CourseID         uuid.UUID `gorm:"type:uuid;not null;column:course_id;uniqueIndex:idx_certificate_user_course,priority:2" json:"courseId"`
	IssuedAt         time.Time `gorm:"type:timestamp;not null;column:issued_at" json:"issuedAt"`
	VerificationCode string    `gorm:"type:varchar(64);not null;uniqueIndex;column:verification_code" json:"verificationCode"`
}

// TableName overrides the default table name.
func (Certificate) TableName() string { return "certificates" }

// Migrate creates the certificates table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Certificate{})
}
