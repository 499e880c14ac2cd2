package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Course is the read-only view of a course owned by the catalog service.
type Course struct {
	types.BaseModel

	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Active bool   `gorm:"type:boolean;not null;default:true;column:is_active" json:"isActive"`
}

// TableName overrides the default table name.
func (Course) TableName() string { return "courses" }

// Module groups lessons inside a course.
type Module struct {
	types.BaseModel

	CourseID uuid.UUID `gorm:"type:uuid;not null;column:course_id;index" json:"courseId"`
	Title    string    `gorm:"type:varchar(120);not null" json:"title"`
	Order    int       `gorm:"type:int;not null;default:0" json:"order"`
}

// TableName overrides the default table name.
func (Module) TableName() string { return "course_modules" }

// Lesson is a single completable unit inside a module.
type Lesson struct {
	types.BaseModel

	ModuleID uuid.UUID `gorm:"type:uuid;not null;column:module_id;index" json:"moduleId"`
	Name     string    `gorm:"type:varchar(80);not null" json:"name"`
	Order    int       `gorm:"type:int;not null;default:0" json:"order"`
}

// TableName overrides the default table name.
func (Lesson) TableName() string { return "lessons" }

// Migrate creates the catalog tables. Production catalogs are administered
// elsewhere; this keeps local databases and tests self-contained.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Course{}, &Module{}, &Lesson{})
}
