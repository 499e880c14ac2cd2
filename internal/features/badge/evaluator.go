package badge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/features/notification"
	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// CompletedCounter counts a user's fully completed courses.
type CompletedCounter interface {
	CountCompletedCourses(ctx context.Context, userID uuid.UUID) (int, error)
}

// Evaluator runs the badge cascade. Every rule is checked on every run, so
// repeating an evaluation converges and never removes a badge.
type Evaluator struct {
	db       *gorm.DB
	catalog  Catalog
	counter  CompletedCounter
	notifier notification.Notifier
	clock    clock.Clock
	rules    []Rule
	logger   *slog.Logger
}

// NewEvaluator constructs the cascade with DefaultRules.
func NewEvaluator(db *gorm.DB, catalog Catalog, counter CompletedCounter, notifier notification.Notifier, clk clock.Clock, logger *slog.Logger) *Evaluator {
	if clk == nil {
		clk = clock.System{}
	}
	if notifier == nil {
		notifier = notification.Nop{}
	}
	return &Evaluator{
		db:       db,
		catalog:  catalog,
		counter:  counter,
		notifier: notifier,
		clock:    clk,
		rules:    DefaultRules,
		logger:   logger,
	}
}

// Evaluate awards every badge whose threshold the user meets and returns the
// ones granted by this call.
func (e *Evaluator) Evaluate(ctx context.Context, userID uuid.UUID) ([]Badge, error) {
	completed, err := e.counter.CountCompletedCourses(ctx, userID)
	if err != nil {
		return nil, err
	}

	awarded := []Badge{}
	for _, name := range Met(e.rules, completed) {
		b, granted, err := e.AwardIfAbsent(ctx, userID, name)
		if err != nil {
			return awarded, err
		}
		if granted {
			awarded = append(awarded, b)
		}
	}
	return awarded, nil
}

// AwardIfAbsent grants the named badge unless the user already holds it.
// A badge missing from the catalog is skipped without error.
func (e *Evaluator) AwardIfAbsent(ctx context.Context, userID uuid.UUID, name string) (Badge, bool, error) {
	b, found, err := e.catalog.ByName(ctx, name)
	if err != nil {
		return Badge{}, false, err
	}
	if !found {
		e.logger.WarnContext(ctx, "badge not in catalog, skipped", slog.String("badge", name))
		return Badge{}, false, nil
	}

	held, err := e.holds(ctx, userID, b.ID)
	if err != nil || held {
		return b, false, err
	}

	row := UserBadge{UserID: userID, BadgeID: b.ID, EarnedAt: e.clock.Now()}
	if err := e.db.WithContext(ctx).Create(&row).Error; err != nil {
		if !dberr.IsUniqueViolation(err) {
			return Badge{}, false, fmt.Errorf("award badge %q: %w", name, err)
		}
		metrics.ConflictIgnored("user_badge")
		e.logger.DebugContext(ctx, "concurrent badge award ignored",
			slog.String("userId", userID.String()),
			slog.String("badge", name),
		)
		return b, false, nil
	}

	metrics.BadgeAwarded(name)
	e.logger.InfoContext(ctx, "badge awarded",
		slog.String("userId", userID.String()),
		slog.String("badge", name),
	)

	delivered := e.notifier.Notify(ctx, userID, types.TemplateBadgeEarned, map[string]any{
		notification.KeyBadgeID:   b.ID.String(),
		notification.KeyBadgeName: b.Name,
		notification.KeyPoints:    b.Points,
	})
	if !delivered {
		e.logger.WarnContext(ctx, "badge notification not delivered",
			slog.String("userId", userID.String()),
			slog.String("badge", name),
		)
	}

	return b, true, nil
}

func (e *Evaluator) holds(ctx context.Context, userID, badgeID uuid.UUID) (bool, error) {
	var row UserBadge
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Take(&row).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check user badge: %w", err)
	}
	return true, nil
}

// EarnedBadge is a badge together with when the user earned it.
type EarnedBadge struct {
	Badge    Badge     `json:"badge"`
	EarnedAt time.Time `json:"earnedAt"`
}

// Summary lists a user's badges and their point total.
type Summary struct {
	Badges      []EarnedBadge `json:"badges"`
	TotalPoints int           `json:"totalPoints"`
}

// ListForUser returns the badges a user holds, oldest first.
func (e *Evaluator) ListForUser(ctx context.Context, userID uuid.UUID) (Summary, error) {
	var held []UserBadge
	err := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&held).Error
	if err != nil {
		return Summary{}, fmt.Errorf("list user badges: %w", err)
	}

	summary := Summary{Badges: make([]EarnedBadge, 0, len(held))}
	if len(held) == 0 {
		return summary, nil
	}

	ids := make([]uuid.UUID, 0, len(held))
	for _, h := range held {
		ids = append(ids, h.BadgeID)
	}

	var badges []Badge
	if err := e.db.WithContext(ctx).Where("id IN ?", ids).Find(&badges).Error; err != nil {
		return Summary{}, fmt.Errorf("load badges: %w", err)
	}
	byID := make(map[uuid.UUID]Badge, len(badges))
	for _, b := range badges {
		byID[b.ID] = b
	}

	for _, h := range held {
		b, ok := byID[h.BadgeID]
		if !ok {
			continue
		}
		summary.Badges = append(summary.Badges, EarnedBadge{Badge: b, EarnedAt: h.EarnedAt})
		summary.TotalPoints += b.Points
	}
	return summary, nil
}
