package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/internal/testutil"
	"github.com/mo-amir99/lms-progress-server-go/pkg/apperrors"
	"github.com/mo-amir99/lms-progress-server-go/pkg/clock"
	"github.com/mo-amir99/lms-progress-server-go/pkg/dberr"
	"github.com/mo-amir99/lms-progress-server-go/pkg/logger"
	"github.com/mo-amir99/lms-progress-server-go/pkg/pagination"
)

type seededQuiz struct {
	quiz  Quiz
	right []uuid.UUID
	wrong []uuid.UUID
}

// seedQuiz stores a quiz with n one-point questions, each with a right and a wrong option.
func seedQuiz(t *testing.T, db *gorm.DB, n int) seededQuiz {
	t.Helper()

	q := Quiz{Title: "Checkpoint", PassingScore: DefaultPassingScore}
	require.NoError(t, db.Create(&q).Error)

	seeded := seededQuiz{}
	for i := 0; i < n; i++ {
		question := Question{QuizID: q.ID, Text: "Q", Points: 1, Order: i}
		require.NoError(t, db.Create(&question).Error)

		right := Option{QuestionID: question.ID, Text: "right", IsCorrect: true}
		wrong := Option{QuestionID: question.ID, Text: "wrong"}
		require.NoError(t, db.Create(&right).Error)
		require.NoError(t, db.Create(&wrong).Error)

		seeded.right = append(seeded.right, right.ID)
		seeded.wrong = append(seeded.wrong, wrong.ID)
	}

	require.NoError(t, db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"order\" ASC")
	}).First(&q, "id = ?", q.ID).Error)
	seeded.quiz = q
	return seeded
}

func newService(t *testing.T) (*Service, *gorm.DB, *clock.Manual) {
	t.Helper()
	db := testutil.OpenDB(t, Migrate)
	clk := clock.NewManual(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	return NewService(db, clk, logger.Discard()), db, clk
}

func answersFor(s seededQuiz, options []uuid.UUID) []SubmittedAnswer {
	out := make([]SubmittedAnswer, 0, len(options))
	for i, opt := range options {
		out = append(out, SubmittedAnswer{QuestionID: s.quiz.Questions[i].ID, OptionID: opt})
	}
	return out
}

func TestStartAttemptReusesOpenAttempt(t *testing.T) {
	svc, db, clk := newService(t)
	s := seedQuiz(t, db, 2)
	ctx := context.Background()
	user := uuid.New()

	first, created, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.Open())

	clk.Advance(time.Minute)
	second, created, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartAttemptConcurrent(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 1)
	user := uuid.New()

	ids := make([]uuid.UUID, 6)
	var g errgroup.Group
	for i := range ids {
		i := i
		g.Go(func() error {
			attempt, _, err := svc.StartAttempt(context.Background(), user, s.quiz.ID)
			ids[i] = attempt.ID
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var open int64
	require.NoError(t, db.Model(&Attempt{}).Where("completed_at IS NULL").Count(&open).Error)
	assert.EqualValues(t, 1, open)
}

func TestOpenAttemptIndexRejectsSecondOpenRow(t *testing.T) {
	_, db, _ := newService(t)
	user, quizID := uuid.New(), uuid.New()

	require.NoError(t, db.Create(&Attempt{UserID: user, QuizID: quizID, StartedAt: time.Now()}).Error)
	err := db.Create(&Attempt{UserID: user, QuizID: quizID, StartedAt: time.Now()}).Error
	assert.True(t, dberr.IsUniqueViolation(err))

	done := time.Now()
	require.NoError(t, db.Create(&Attempt{UserID: user, QuizID: quizID, StartedAt: done, CompletedAt: &done}).Error)
}

func TestStartAttemptUnknownQuiz(t *testing.T) {
	svc, _, _ := newService(t)

	_, _, err := svc.StartAttempt(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestSubmitAttemptScoresAndCloses(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 2)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	res, err := svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, answersFor(s, []uuid.UUID{s.right[0], s.wrong[1]}))
	require.NoError(t, err)
	assert.Equal(t, 50, res.Score)
	assert.False(t, res.Passed)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 2, res.TotalQuestions)

	var stored Attempt
	require.NoError(t, db.First(&stored, "id = ?", attempt.ID).Error)
	require.NotNil(t, stored.CompletedAt)
	require.NotNil(t, stored.Score)
	require.NotNil(t, stored.Passed)
	assert.Equal(t, 50, *stored.Score)
	assert.False(t, *stored.Passed)

	var answers int64
	require.NoError(t, db.Model(&Answer{}).Where("attempt_id = ?", attempt.ID).Count(&answers).Error)
	assert.EqualValues(t, 2, answers)
}

func TestSubmitAttemptAllCorrect(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 3)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	res, err := svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, answersFor(s, s.right))
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)
	assert.Equal(t, 3, res.CorrectCount)
}

func TestSubmitAttemptRejectsResubmission(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 2)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, answersFor(s, []uuid.UUID{s.right[0], s.wrong[1]}))
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, answersFor(s, s.right))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	var stored Attempt
	require.NoError(t, db.First(&stored, "id = ?", attempt.ID).Error)
	assert.Equal(t, 50, *stored.Score)
	assert.False(t, *stored.Passed)

	next, created, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, attempt.ID, next.ID)
}

func TestSubmitAttemptConcurrentOnlyOneWins(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 2)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	errs := make([]error, 4)
	var g errgroup.Group
	for i := range errs {
		i := i
		g.Go(func() error {
			_, errs[i] = svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, answersFor(s, s.right))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadySubmitted)
	}
	assert.Equal(t, 1, succeeded)

	var answers int64
	require.NoError(t, db.Model(&Answer{}).Where("attempt_id = ?", attempt.ID).Count(&answers).Error)
	assert.EqualValues(t, 2, answers)
}

func TestSubmitAttemptInvalidAttempt(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 1)
	other := seedQuiz(t, db, 1)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	tests := []struct {
		name      string
		userID    uuid.UUID
		quizID    uuid.UUID
		attemptID uuid.UUID
	}{
		{"unknown attempt", user, s.quiz.ID, uuid.New()},
		{"other user", uuid.New(), s.quiz.ID, attempt.ID},
		{"other quiz", user, other.quiz.ID, attempt.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitAttempt(ctx, tt.userID, tt.quizID, tt.attemptID, nil)
			assert.ErrorIs(t, err, ErrInvalidAttempt)
		})
	}

	var stored Attempt
	require.NoError(t, db.First(&stored, "id = ?", attempt.ID).Error)
	assert.True(t, stored.Open())
}

func TestSubmitAttemptValidation(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 2)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(ctx, user, uuid.New(), attempt.ID, nil)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	dup := []SubmittedAnswer{
		{QuestionID: s.quiz.Questions[0].ID, OptionID: s.right[0]},
		{QuestionID: s.quiz.Questions[0].ID, OptionID: s.wrong[0]},
	}
	_, err = svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, dup)
	assert.ErrorIs(t, err, ErrDuplicateAnswer)

	var stored Attempt
	require.NoError(t, db.First(&stored, "id = ?", attempt.ID).Error)
	assert.True(t, stored.Open(), "rejected submissions leave the attempt open")
}

func TestSubmitAttemptIgnoresUnknownQuestions(t *testing.T) {
	svc, db, _ := newService(t)
	s := seedQuiz(t, db, 1)
	ctx := context.Background()
	user := uuid.New()

	attempt, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	answers := append(answersFor(s, s.right), SubmittedAnswer{QuestionID: uuid.New(), OptionID: uuid.New()})
	res, err := svc.SubmitAttempt(ctx, user, s.quiz.ID, attempt.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)

	var stored int64
	require.NoError(t, db.Model(&Answer{}).Where("attempt_id = ?", attempt.ID).Count(&stored).Error)
	assert.EqualValues(t, 1, stored)
}

func TestListAttemptsNewestFirst(t *testing.T) {
	svc, db, clk := newService(t)
	s := seedQuiz(t, db, 1)
	ctx := context.Background()
	user := uuid.New()

	first, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(ctx, user, s.quiz.ID, first.ID, answersFor(s, s.wrong))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	second, _, err := svc.StartAttempt(ctx, user, s.quiz.ID)
	require.NoError(t, err)

	attempts, total, err := svc.ListAttempts(ctx, user, s.quiz.ID, pagination.New(1, 20))
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, second.ID, attempts[0].ID)
	assert.Equal(t, first.ID, attempts[1].ID)
}
