package dto

import "time"

// CreateQuizRequest represents quiz creation data
type CreateQuizRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	CourseID        *int64 `json:"courseId,omitempty"`
	SubjectID       *int64 `json:"subjectId,omitempty"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
}

// UpdateQuizRequest represents whitelisted quiz update fields
type UpdateQuizRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Status          string `json:"status" binding:"required,oneof=draft published"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
}

// CreateQuestionRequest represents one question with its options.
// CorrectOption is the zero-based index into Options.
type CreateQuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Points        int      `json:"points" binding:"required,min=1"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectOption int      `json:"correctOption" binding:"min=0"`
}

// SubmittedAnswer pairs a question with the option the student picked
type SubmittedAnswer struct {
	QuestionID int64 `json:"questionId" binding:"required,min=1"`
	OptionID   int64 `json:"optionId" binding:"required,min=1"`
}

// SubmitAttemptRequest represents a quiz submission. Omitted questions score
// zero.
type SubmitAttemptRequest struct {
	AttemptID int64             `json:"attemptId" binding:"required,min=1"`
	Answers   []SubmittedAnswer `json:"answers"`
}

// AttemptStartResponse is returned by the start endpoint; questions are
// serialized without the correct option id.
type AttemptStartResponse struct {
	AttemptID     int64       `json:"attemptId"`
	QuizID        int64       `json:"quizId"`
	QuestionOrder []int64     `json:"questionOrder"`
	ExpiresAt     time.Time   `json:"expiresAt"`
	Questions     interface{} `json:"questions"`
}

// AttemptResultResponse is returned after grading a submission
type AttemptResultResponse struct {
	AttemptID   int64     `json:"attemptId"`
	Score       int       `json:"score"`
	TotalPoints int       `json:"totalPoints"`
	Percentage  float64   `json:"percentage"`
	SubmittedAt time.Time `json:"submittedAt"`
}
