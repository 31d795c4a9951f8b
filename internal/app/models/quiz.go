package models

import "time"

// QuizStatus is the publication state of a quiz
type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizPublished QuizStatus = "published"
)

// Quiz defines the quiz model based on the 'quizzes' table
type Quiz struct {
	ID              int64       `json:"id" db:"id" example:"1"`
	Title           string      `json:"title" db:"title" example:"Data Structures midterm practice"`
	Description     string      `json:"description" db:"description"`
	CourseID        *int64      `json:"courseId,omitempty" db:"course_id"`
	SubjectID       *int64      `json:"subjectId,omitempty" db:"subject_id"`
	Status          QuizStatus  `json:"status" db:"status" example:"published"`
	DurationMinutes int         `json:"durationMinutes" db:"duration_minutes" example:"30"`
	CreatedBy       int64       `json:"createdBy" db:"created_by"` // users.id of the author
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	Questions       []*Question `json:"questions,omitempty"` // Relation, no db tag
}

// Question defines one quiz question with its options. Scoring is binary:
// the submitted option either matches CorrectOptionID for full Points or
// awards nothing.
type Question struct {
	ID              int64             `json:"id" db:"id"`
	QuizID          int64             `json:"quizId" db:"quiz_id"`
	Text            string            `json:"text" db:"text"`
	Points          int               `json:"points" db:"points" example:"5"`
	Position        int               `json:"position" db:"position"`
	CorrectOptionID int64             `json:"-" db:"correct_option_id"` // never exposed to students
	Options         []*QuestionOption `json:"options,omitempty"`        // Relation, no db tag
}

// QuestionOption defines one selectable option of a question
type QuestionOption struct {
	ID         int64  `json:"id" db:"id"`
	QuestionID int64  `json:"questionId" db:"question_id"`
	Text       string `json:"text" db:"text"`
	Position   int    `json:"position" db:"position"`
}

// AttemptStatus is the lifecycle state of a quiz attempt
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// QuizAttempt defines one student's timed run through a quiz, terminal at
// submission or wall-clock expiry (checked at submission time).
type QuizAttempt struct {
	ID            int64         `json:"id" db:"id"`
	QuizID        int64         `json:"quizId" db:"quiz_id"`
	StudentID     int64         `json:"studentId" db:"student_id"`
	QuestionOrder []int64       `json:"questionOrder" db:"question_order"`
	StartedAt     time.Time     `json:"startedAt" db:"started_at"`
	ExpiresAt     time.Time     `json:"expiresAt" db:"expires_at"`
	SubmittedAt   *time.Time    `json:"submittedAt,omitempty" db:"submitted_at"`
	Score         int           `json:"score" db:"score"`
	Percentage    float64       `json:"percentage" db:"percentage"`
	Status        AttemptStatus `json:"status" db:"status"`
}
