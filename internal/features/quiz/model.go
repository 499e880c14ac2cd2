package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/lms-progress-server-go/pkg/types"
)

// DefaultPassingScore applies when a quiz does not set its own threshold.
const DefaultPassingScore = 70

// Quiz is a scored set of questions attached to a course.
type Quiz struct {
	types.BaseModel

	CourseID     *uuid.UUID `gorm:"type:uuid;column:course_id;index" json:"courseId,omitempty"`
	Title        string     `gorm:"type:varchar(120);not null" json:"title"`
	PassingScore int        `gorm:"type:int;not null;default:70;column:passing_score" json:"passingScore"`
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

// TableName overrides the default table name.
func (Quiz) TableName() string { return "quizzes" }

// Question carries a point weight and its answer options.
type Question struct {
	types.BaseModel

	QuizID  uuid.UUID `gorm:"type:uuid;not null;column:quiz_id;index" json:"quizId"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	Points  int       `gorm:"type:int;not null;default:1" json:"points"`
	Order   int       `gorm:"type:int;not null;default:0" json:"order"`
	Options []Option  `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

// TableName overrides the default table name.
func (Question) TableName() string { return "quiz_questions" }

// Option is one selectable answer. Exactly one per question should be correct.
type Option struct {
	types.BaseModel

	QuestionID uuid.UUID `gorm:"type:uuid;not null;column:question_id;index" json:"questionId"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"type:boolean;not null;default:false;column:is_correct" json:"-"`
}

// TableName overrides the default table name.
func (Option) TableName() string { return "quiz_options" }

// Attempt is one try at a quiz. A nil CompletedAt means the attempt is open;
// once set the attempt is closed for good.
type Attempt struct {
	types.BaseModel

	UserID      uuid.UUID  `gorm:"type:uuid;not null;column:user_id;index:idx_quiz_attempt_user_quiz,priority:1" json:"userId"`
	QuizID      uuid.UUID  `gorm:"type:uuid;not null;column:quiz_id;index:idx_quiz_attempt_user_quiz,priority:2" json:"quizId"`
	StartedAt   time.Time  `gorm:"type:timestamp;not null;column:started_at" json:"startedAt"`
	CompletedAt *time.Time `gorm:"type:timestamp;column:completed_at" json:"completedAt,omitempty"`
	Score       *int       `gorm:"type:int" json:"score,omitempty"`
	Passed      *bool      `gorm:"type:boolean" json:"passed,omitempty"`
}

// TableName overrides the default table name.
func (Attempt) TableName() string { return "quiz_attempts" }

// Open reports whether the attempt still accepts a submission.
func (a Attempt) Open() bool { return a.CompletedAt == nil }

// Answer records the option chosen for one question of an attempt.
type Answer struct {
	types.BaseModel

	AttemptID  uuid.UUID `gorm:"type:uuid;not null;column:attempt_id;uniqueIndex:idx_quiz_answer_attempt_question,priority:1" json:"attemptId"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;column:question_id;uniqueIndex:idx_quiz_answer_attempt_question,priority:2" json:"questionId"`
	OptionID   uuid.UUID `gorm:"type:uuid;not null;column:option_id" json:"optionId"`
}

// TableName overrides the default table name.
func (Answer) TableName() string { return "quiz_answers" }

// openAttemptIndex allows a single open attempt per (user, quiz).
const openAttemptIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_quiz_attempt_open
	ON quiz_attempts (user_id, quiz_id) WHERE completed_at IS NULL`

// Migrate creates the quiz tables and the open-attempt index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Quiz{}, &Question{}, &Option{}, &Attempt{}, &Answer{}); err != nil {
		return err
	}
	return db.Exec(openAttemptIndex).Error
}
