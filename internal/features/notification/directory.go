package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// User is the slice of the users table needed to address a notice.
// Users are managed by the account service.
type User struct {
	types.BaseModel

	FullName string `gorm:"type:varchar(120);not null;column:full_name" json:"fullName"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// MigrateUsers creates the users table for local databases and tests.
func MigrateUsers(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

// Directory resolves a user's email address.
type Directory interface {
	Email(ctx context.Context, userID uuid.UUID) (string, error)
}

// UserDirectory reads addresses from the users table.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory constructs a read-only directory.
func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// Email returns the address on file, or "" when the user is unknown.
func (d *UserDirectory) Email(ctx context.Context, userID uuid.UUID) (string, error) {
	var u User
	err := d.db.WithContext(ctx).Select("id", "email").Take(&u, "id = ?", userID).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("load user email: %w", err)
	}
	return u.Email, nil
}
