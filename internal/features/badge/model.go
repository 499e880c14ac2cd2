package badge

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// Badge is a catalog entry. Names are unique and rules refer to badges by name.
type Badge struct {
	types.BaseModel

	Name        string  `gorm:"type:varchar(80);not null;uniqueIndex" json:"name" yaml:"name"`
	Description string  `gorm:"type:text;not null;default:''" json:"description" yaml:"description"`
	Points      int     `gorm:"type:int;not null;default:0" json:"points" yaml:"points"`
	Icon        *string `gorm:"type:text" json:"icon,omitempty" yaml:"icon,omitempty"`
}

// TableName overrides the default table name.
func (Badge) TableName() string { return "badges" }

// UserBadge records that a user earned a badge. Once present it stays.
type UserBadge struct {
	types.BaseModel

	UserID   uuid.UUID `gorm:"type:uuid;not null;column:user_id;uniqueIndex:idx_user_badge_user_badge,priority:1" json:"userId"`
	BadgeID  uuid.UUID `gorm:"type:uuid;not null;column:badge_id;uniqueIndex:idx_user_badge_user_badge,priority:2" json:"badgeId"`
	EarnedAt time.Time `gorm:"type:timestamp;not null;column:earned_at" json:"earnedAt"`
}

// TableName overrides the default table name.
func (UserBadge) TableName() string { return "user_badges" }

// Migrate creates the badge tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Badge{}, &UserBadge{})
}
