package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/badge"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/catalog"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/certificate"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/completion"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/enrollment"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/notification"
	"github.com/mo-amir99/lms-progress-server-go/internal/features/quiz"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
	"github.com/mo-amir99/lms-progress-server-go/pkg/database/migrations"
)

var registerOnce sync.Once

// RegisterMigrations adds every feature schema to the migration registry.
// Order matters only for readability; no table declares foreign keys.
func RegisterMigrations() {
	registerOnce.Do(func() {
		migrations.Register("users", notification.MigrateUsers)
		migrations.Register("catalog", catalog.Migrate)
		migrations.Register("enrollments", enrollment.Migrate)
		migrations.Register("lesson_completions", completion.Migrate)
		migrations.Register("quizzes", quiz.Migrate)
		migrations.Register("certificates", certificate.Migrate)
		migrations.Register("badges", badge.Migrate)
	})
}

// ApplyDatabaseMigrations runs database migrations when enabled via configuration.
func ApplyDatabaseMigrations(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if !cfg.Database.RunMigrations {
		logger.Info("database migrations skipped", slog.String("env_var", "LMS_DB_RUN_MIGRATIONS=false"))
		return nil
	}
	return Migrate(ctx, db, logger)
}

// Migrate runs the registered migrations unconditionally; only narrows the
// run to the named ones.
func Migrate(ctx context.Context, db *gorm.DB, logger *slog.Logger, only ...string) error {
	RegisterMigrations()

	if err := migrations.Run(ctx, db, logger, only...); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("database migrations applied successfully")
	return nil
}

// MigrationNames lists the registered migrations in run order.
func MigrationNames() []string {
	RegisterMigrations()
	return migrations.Names()
}
