package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
// IDs are generated in-process so the same schema works on Postgres and SQLite.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TemplateKind identifies the notification template for a pipeline side effect.
type TemplateKind string

const (
	TemplateCertificateIssued TemplateKind = "certificate_issued"
	TemplateBadgeEarned       TemplateKind = "badge_earned"
)
