package badge

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedFile is the YAML document accepted by `progressctl badges seed`.
//
//	badges:
//	  - name: First Step
//	    description: Complete your first course
//	    points: 10
type SeedFile struct {
	Badges []Badge `yaml:"badges"`
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(r io.Reader) ([]Badge, error) {
	var doc SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode badge seed: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Badges))
	for i := range doc.Badges {
		b := &doc.Badges[i]
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			return nil, fmt.Errorf("badge #%d: name is required", i+1)
		}
		if b.Points < 0 {
			return nil, fmt.Errorf("badge %q: points must not be negative", b.Name)
		}
		if _, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("badge %q listed twice", b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return doc.Badges, nil
}

// Seed upserts badges by name, updating description, points and icon.
func Seed(ctx context.Context, db *gorm.DB, badges []Badge) error {
	if len(badges) == 0 {
		return nil
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "points", "icon", "updated_at"}),
	}).Create(&badges).Error
	if err != nil {
		return fmt.Errorf("seed badges: %w", err)
	}
	return nil
}
