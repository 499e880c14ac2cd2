// Package cli implements progressctl, the operator tool for schema
// migrations, badge catalog seeding and badge reconciliation.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/bootstrap"
	"github.com/mo-amir99/lms-progress-server-go/pkg/cache"
	"github.com/mo-amir99/lms-progress-server-go/pkg/config"
	"github.com/mo-amir99/lms-progress-server-go/pkg/database"
	"github.com/mo-amir99/lms-progress-server-go/pkg/email"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
)

// env is what a command runs against.
type env struct {
	db       *gorm.DB
	services *bootstrap.Services
	logger   *slog.Logger
	close    func()
}

// openEnv is replaced in tests.
var openEnv = func(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	store := bootstrap.NewCache(cfg.Redis, log)
	services := bootstrap.NewServices(bootstrap.Deps{
		Config: cfg,
		DB:     db,
		Cache:  store,
		Mailer: email.NewClient(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password, cfg.Email.From, cfg.Email.Secure),
	}, log)

	return &env{
		db:       db,
		services: services,
		logger:   log,
		close:    closer(db, store, log),
	}, nil
}

func closer(db *gorm.DB, store cache.Client, log *slog.Logger) func() {
	return func() {
		_ = store.Close()
		if err := database.Close(db, log); err != nil {
			log.Error("database close failed", slog.String("error", err.Error()))
		}
	}
}

// withEnv opens the environment for the duration of fn.
func withEnv(cmd *cobra.Command, fn func(*env) error) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()
	return fn(e)
}

// NewRootCommand builds the progressctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Operate the learning progress server",
		SilenceUsage:  true,
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newBadgesCommand())
	root.AddCommand(newCertificatesCommand())
	return root
}

// Execute runs progressctl with the process arguments.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}
