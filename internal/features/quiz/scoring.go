package quiz

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmittedAnswer is one (question, option) choice sent by the learner.
type SubmittedAnswer struct {
	QuestionID uuid.UUID `json:"questionId" binding:"required"`
	OptionID   uuid.UUID `json:"optionId" binding:"required"`
}

// QuestionResult reports whether a single question was answered correctly.
type QuestionResult struct {
	QuestionID uuid.UUID `json:"questionId"`
	Correct    bool      `json:"correct"`
}

// Result is the outcome of scoring a submission.
type Result struct {
	AttemptID      uuid.UUID        `json:"attemptId"`
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Questions      []QuestionResult `json:"questions"`
}

// Score grades answers against a quiz with its questions and options loaded.
// Answers for questions outside the quiz are ignored. A question without a
// correct option still counts towards the total but can never be earned.
// Two answers for the same question are rejected with ErrDuplicateAnswer.
func Score(q Quiz, answers []SubmittedAnswer) (Result, error) {
	chosen, err := indexAnswers(answers)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		TotalQuestions: len(q.Questions),
		Questions:      make([]QuestionResult, 0, len(q.Questions)),
	}

	totalPoints, earned := 0, 0
	for _, question := range q.Questions {
		totalPoints += question.Points

		correct := false
		if optionID, ok := chosen[question.ID]; ok {
			if right, found := correctOption(question); found && right == optionID {
				correct = true
			}
		}
		if correct {
			earned += question.Points
			result.CorrectCount++
		}
		result.Questions = append(result.Questions, QuestionResult{QuestionID: question.ID, Correct: correct})
	}

	result.Score = percent(earned, totalPoints)
	result.Passed = result.Score >= q.PassingScore
	return result, nil
}

func indexAnswers(answers []SubmittedAnswer) (map[uuid.UUID]uuid.UUID, error) {
	chosen := make(map[uuid.UUID]uuid.UUID, len(answers))
	for _, a := range answers {
		if _, dup := chosen[a.QuestionID]; dup {
			return nil, ErrDuplicateAnswer
		}
		chosen[a.QuestionID] = a.OptionID
	}
	return chosen, nil
}

func correctOption(q Question) (uuid.UUID, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID, true
		}
	}
	return uuid.Nil, false
}

func percent(earned, total int) int {
	if total <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(earned)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())
}
