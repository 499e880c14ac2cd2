package badge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CompletedUsers lists users who hold at least one completed course.
type CompletedUsers interface {
	UsersWithCompletedCourses(ctx context.Context) ([]uuid.UUID, error)
}

// ReconcileJob re-runs the cascade for every user with a completed course.
// It repairs awards missed while the catalog lacked a badge or after data fixes.
type ReconcileJob struct {
	users     CompletedUsers
	evaluator *Evaluator
	logger    *slog.Logger
}

// NewReconcileJob constructs the reconciliation job.
func NewReconcileJob(users CompletedUsers, evaluator *Evaluator, logger *slog.Logger) *ReconcileJob {
	return &ReconcileJob{users: users, evaluator: evaluator, logger: logger}
}

// Name returns the job name.
func (j *ReconcileJob) Name() string {
	return "badge_reconcile"
}

// Execute evaluates each user; a failure for one user does not stop the rest.
func (j *ReconcileJob) Execute(ctx context.Context) error {
	ids, err := j.users.UsersWithCompletedCourses(ctx)
	if err != nil {
		return err
	}

	var errs []error
	awarded := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		granted, err := j.evaluator.Evaluate(ctx, id)
		awarded += len(granted)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
		}
	}

	j.logger.InfoContext(ctx, "badge reconciliation finished",
		slog.Int("users", len(ids)),
		slog.Int("awarded", awarded),
		slog.Int("errors", len(errs)),
	)
	return errors.Join(errs...)
}
