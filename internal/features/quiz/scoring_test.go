package quiz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

func question(points int, correct bool) (Question, uuid.UUID, uuid.UUID) {
	right := Option{BaseModel: types.BaseModel{ID: uuid.New()}, IsCorrect: correct}
	wrong := Option{BaseModel: types.BaseModel{ID: uuid.New()}}
	q := Question{
		BaseModel: types.BaseModel{ID: uuid.New()},
		Points:    points,
		Options:   []Option{wrong, right},
	}
	return q, right.ID, wrong.ID
}

func TestScore(t *testing.T) {
	q1, q1Right, q1Wrong := question(1, true)
	q2, q2Right, q2Wrong := question(1, true)
	heavy, heavyRight, _ := question(3, true)
	noCorrect, noCorrectOpt, _ := question(1, false)

	tests := []struct {
		name      string
		questions []Question
		answers   []SubmittedAnswer
		score     int
		passed    bool
		correct   int
	}{
		{
			name:      "one right one wrong",
			questions: []Question{q1, q2},
			answers:   []SubmittedAnswer{{q1.ID, q1Right}, {q2.ID, q2Wrong}},
			score:     50,
			passed:    false,
			correct:   1,
		},
		{
			name:      "all correct",
			questions: []Question{q1, q2},
			answers:   []SubmittedAnswer{{q1.ID, q1Right}, {q2.ID, q2Right}},
			score:     100,
			passed:    true,
			correct:   2,
		},
		{
			name:      "weighted",
			questions: []Question{q1, heavy},
			answers:   []SubmittedAnswer{{q1.ID, q1Wrong}, {heavy.ID, heavyRight}},
			score:     75,
			passed:    true,
			correct:   1,
		},
		{
			name:      "unanswered question counts as wrong",
			questions: []Question{q1, q2},
			answers:   []SubmittedAnswer{{q1.ID, q1Right}},
			score:     50,
			correct:   1,
		},
		{
			name:      "question without correct option is never earned",
			questions: []Question{q1, noCorrect},
			answers:   []SubmittedAnswer{{q1.ID, q1Right}, {noCorrect.ID, noCorrectOpt}},
			score:     50,
			correct:   1,
		},
		{
			name:      "unknown question ignored",
			questions: []Question{q1},
			answers:   []SubmittedAnswer{{q1.ID, q1Right}, {uuid.New(), uuid.New()}},
			score:     100,
			passed:    true,
			correct:   1,
		},
		{
			name:      "no questions",
			questions: nil,
			answers:   nil,
			score:     0,
		},
		{
			name:      "weighted partial",
			questions: []Question{q1, q2, heavy},
			answers:   []SubmittedAnswer{{q1.ID, q1Right}, {q2.ID, q2Right}},
			score:     40,
			correct:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(Quiz{PassingScore: 70, Questions: tt.questions}, tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.passed, res.Passed)
			assert.Equal(t, tt.correct, res.CorrectCount)
			assert.Equal(t, len(tt.questions), res.TotalQuestions)
			assert.Len(t, res.Questions, len(tt.questions))
		})
	}
}

func TestScoreRoundsHalfAwayFromZero(t *testing.T) {
	qs := make([]Question, 0, 8)
	answers := make([]SubmittedAnswer, 0, 8)
	for i := 0; i < 8; i++ {
		q, right, _ := question(1, true)
		qs = append(qs, q)
		if i < 5 {
			answers = append(answers, SubmittedAnswer{q.ID, right})
		}
	}

	// 5/8 = 62.5
	res, err := Score(Quiz{PassingScore: 63, Questions: qs}, answers)
	require.NoError(t, err)
	assert.Equal(t, 63, res.Score)
	assert.True(t, res.Passed)
}

func TestScoreRejectsDuplicateAnswers(t *testing.T) {
	q1, right, wrong := question(1, true)

	_, err := Score(Quiz{PassingScore: 70, Questions: []Question{q1}}, []SubmittedAnswer{
		{q1.ID, right},
		{q1.ID, wrong},
	})
	assert.ErrorIs(t, err, ErrDuplicateAnswer)
}
