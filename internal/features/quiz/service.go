package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
	"github.com/mo-amir99/lms-progress-server-go/pkg/metrics"
	"github.com/mo-amir99/lms-progress-server-go/pkg/pagination"
)

// Service drives the attempt lifecycle: start, submit, list.
type Service struct {
	db     *gorm.DB
	clock  clock.Clock
	logger *slog.Logger
}

// NewService constructs a quiz attempt service.
func NewService(db *gorm.DB, clk clock.Clock, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{db: db, clock: clk, logger: logger}
}

// StartAttempt returns the user's open attempt for the quiz, creating one if
// none exists. created is false when an existing attempt was reused.
func (s *Service) StartAttempt(ctx context.Context, userID, quizID uuid.UUID) (Attempt, bool, error) {
	if err := s.ensureQuiz(ctx, quizID); err != nil {
		return Attempt{}, false, err
	}

	if open, found, err := s.findOpen(ctx, userID, quizID); err != nil || found {
		return open, false, err
	}

	attempt := Attempt{
		UserID:    userID,
		QuizID:    quizID,
		StartedAt: s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		if !dberr.IsUniqueViolation(err) {
			return Attempt{}, false, fmt.Errorf("create attempt: %w", err)
		}

		// Lost the race against a concurrent start; keep the winner's attempt.
		metrics.ConflictIgnored("quiz_attempt")
		s.logger.DebugContext(ctx, "concurrent attempt start ignored",
			slog.String("userId", userID.String()),
			slog.String("quizId", quizID.String()),
		)

		open, found, err := s.findOpen(ctx, userID, quizID)
		if err != nil {
			return Attempt{}, false, err
		}
		if !found {
			return Attempt{}, false, errors.New("open attempt missing after start conflict")
		}
		return open, false, nil
	}

	return attempt, true, nil
}

// SubmitAttempt scores the answers and closes the attempt. Closing is a
// conditional update, so of two concurrent submissions only one succeeds.
func (s *Service) SubmitAttempt(ctx context.Context, userID, quizID, attemptID uuid.UUID, answers []SubmittedAnswer) (Result, error) {
	q, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return Result{}, err
	}

	var attempt Attempt
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND quiz_id = ?", attemptID, userID, quizID).
		Take(&attempt).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return Result{}, ErrInvalidAttempt
		}
		return Result{}, fmt.Errorf("load attempt: %w", err)
	}
	if !attempt.Open() {
		return Result{}, ErrAlreadySubmitted
	}

	result, err := Score(q, answers)
	if err != nil {
		return Result{}, err
	}
	result.AttemptID = attempt.ID

	known := make(map[uuid.UUID]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		known[question.ID] = struct{}{}
	}
	rows := make([]Answer, 0, len(answers))
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			continue
		}
		rows = append(rows, Answer{AttemptID: attempt.ID, QuestionID: a.QuestionID, OptionID: a.OptionID})
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closed := tx.Model(&Attempt{}).
			Where("id = ? AND completed_at IS NULL", attempt.ID).
			Updates(map[string]interface{}{
				"completed_at": now,
				"score":        result.Score,
				"passed":       result.Passed,
				"updated_at":   now,
			})
		if closed.Error != nil {
			return fmt.Errorf("close attempt: %w", closed.Error)
		}
		if closed.RowsAffected == 0 {
			return ErrAlreadySubmitted
		}

		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("save answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	metrics.QuizSubmitted(result.Passed)
	s.logger.InfoContext(ctx, "quiz attempt submitted",
		slog.String("userId", userID.String()),
		slog.String("quizId", quizID.String()),
		slog.String("attemptId", attempt.ID.String()),
		slog.Int("score", result.Score),
		slog.Bool("passed", result.Passed),
	)

	return result, nil
}

// ListAttempts returns one page of the user's attempts for a quiz, newest
// first, with the total attempt count.
func (s *Service) ListAttempts(ctx context.Context, userID, quizID uuid.UUID, page pagination.Params) ([]Attempt, int64, error) {
	if err := s.ensureQuiz(ctx, quizID); err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&Attempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count attempts: %w", err)
	}

	attempts := []Attempt{}
	err := query.Scopes(page.Scope).
		Order("started_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, total, nil
}

func (s *Service) findOpen(ctx context.Context, userID, quizID uuid.UUID) (Attempt, bool, error) {
	var attempt Attempt
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND completed_at IS NULL", userID, quizID).
		Take(&attempt).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return Attempt{}, false, nil
		}
		return Attempt{}, false, fmt.Errorf("find open attempt: %w", err)
	}
	return attempt, true, nil
}

func (s *Service) ensureQuiz(ctx context.Context, quizID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Quiz{}).Where("id = ?", quizID).Count(&count).Error; err != nil {
		return fmt.Errorf("check quiz: %w", err)
	}
	if count == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *Service) loadQuiz(ctx context.Context, quizID uuid.UUID) (Quiz, error) {
	var q Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"order\" ASC, id ASC")
		}).
		Preload("Questions.Options").
		Take(&q, "id = ?", quizID).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return q, nil
}
