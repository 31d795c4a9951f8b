package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
)

// QuizService manages quizzes, questions and timed attempts
type QuizService struct {
	quizRepo *repositories.QuizRepository
	now      func() time.Time
}

// NewQuizService creates a new quiz service
func NewQuizService(quizRepo *repositories.QuizRepository) *QuizService {
	return &QuizService{quizRepo: quizRepo, now: time.Now}
}

// CreateQuiz creates a quiz in draft status
func (s *QuizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest, createdBy int64) (*models.Quiz, error) {
	quiz := &models.Quiz{
		Title:           req.Title,
		Description:     req.Description,
		CourseID:        req.CourseID,
		SubjectID:       req.SubjectID,
		Status:          models.QuizDraft,
		DurationMinutes: req.DurationMinutes,
		CreatedBy:       createdBy,
	}
	if err := s.quizRepo.CreateQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetQuizForStaff loads a quiz with its questions, correct answers included
func (s *QuizService) GetQuizForStaff(ctx context.Context, id int64) (*models.Quiz, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizRepo.LoadQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return quiz, nil
}

// GetQuizForStudent loads a published quiz. Questions are withheld until the
// student starts an attempt, and correct option ids are never serialized.
func (s *QuizService) GetQuizForStudent(ctx context.Context, id int64) (*models.Quiz, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.QuizPublished {
		return nil, apperrors.ErrQuizNotPublished
	}
	return quiz, nil
}

// ListQuizzes returns a page of quizzes. Students only see published ones.
func (s *QuizService) ListQuizzes(ctx context.Context, role models.RoleType, courseID, subjectID *int64, status *models.QuizStatus, offset uint64, limit int) ([]*models.Quiz, int64, error) {
	if role == models.RoleStudent {
		published := models.QuizPublished
		status = &published
	}
	return s.quizRepo.ListQuizzes(ctx, courseID, subjectID, status, offset, limit)
}

// UpdateQuiz modifies quiz metadata and status
func (s *QuizService) UpdateQuiz(ctx context.Context, id int64, req *dto.UpdateQuizRequest) (*models.Quiz, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.DurationMinutes = req.DurationMinutes
	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	newStatus := models.QuizStatus(req.Status)
	if newStatus != quiz.Status {
		if newStatus == models.QuizPublished {
			questions, err := s.quizRepo.LoadQuestions(ctx, id)
			if err != nil {
				return nil, err
			}
			if len(questions) == 0 {
				return nil, apperrors.NewBadRequestError("cannot publish a quiz without questions")
			}
		}
		if err := s.quizRepo.UpdateQuizStatus(ctx, id, newStatus); err != nil {
			return nil, err
		}
		quiz.Status = newStatus
	}
	return quiz, nil
}

// DeleteQuiz removes a quiz and everything attached to it
func (s *QuizService) DeleteQuiz(ctx context.Context, id int64) error {
	return s.quizRepo.DeleteQuiz(ctx, id)
}

// AddQuestion appends a question to a draft quiz
func (s *QuizService) AddQuestion(ctx context.Context, quizID int64, req *dto.CreateQuestionRequest) (*models.Question, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status == models.QuizPublished {
		return nil, apperrors.NewBadRequestError("cannot modify a published quiz")
	}
	if req.CorrectOption >= len(req.Options) {
		return nil, apperrors.NewBadRequestError("correct option index out of range")
	}

	existing, err := s.quizRepo.LoadQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		QuizID:   quizID,
		Text:     req.Text,
		Points:   req.Points,
		Position: len(existing),
	}
	if err := s.quizRepo.AddQuestion(ctx, question, req.Options, req.CorrectOption); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question from a draft quiz
func (s *QuizService) DeleteQuestion(ctx context.Context, quizID, questionID int64) error {
	quiz, err := s.quizRepo.FindQuizByID(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.Status == models.QuizPublished {
		return apperrors.NewBadRequestError("cannot modify a published quiz")
	}
	return s.quizRepo.DeleteQuestion(ctx, quizID, questionID)
}

// StartAttempt opens a timed attempt on a published quiz. The question order
// is shuffled per attempt and fixed for its duration.
func (s *QuizService) StartAttempt(ctx context.Context, quizID, studentID int64) (*dto.AttemptStartResponse, error) {
	quiz, err := s.quizRepo.FindQuizByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.QuizPublished {
		return nil, apperrors.ErrQuizNotPublished
	}

	questions, err := s.quizRepo.LoadQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.ErrQuizNotPublished
	}

	order := make([]int64, len(questions))
	for i, q := range questions {
		order[i] = q.ID
	}
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	now := s.now()
	attempt := &models.QuizAttempt{
		QuizID:        quizID,
		StudentID:     studentID,
		QuestionOrder: order,
		StartedAt:     now,
		ExpiresAt:     now.Add(time.Duration(quiz.DurationMinutes) * time.Minute),
		Status:        models.AttemptInProgress,
	}
	if err := s.quizRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	return &dto.AttemptStartResponse{
		AttemptID:     attempt.ID,
		QuizID:        quizID,
		QuestionOrder: order,
		ExpiresAt:     attempt.ExpiresAt,
		Questions:     questions,
	}, nil
}

// SubmitAttempt grades a submission and closes the attempt. Submissions after
// the expiry instant are rejected.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID, studentID int64, req *dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	attempt, err := s.quizRepo.FindAttemptByID(ctx, req.AttemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, apperrors.ErrPermissionDenied
	}
	if attempt.QuizID != quizID {
		return nil, apperrors.NewBadRequestError("attempt does not belong to this quiz")
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, apperrors.ErrAttemptAlreadyClosed
	}

	now := s.now()
	if now.After(attempt.ExpiresAt) {
		return nil, apperrors.ErrAttemptExpired
	}

	questions, err := s.quizRepo.LoadQuestions(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	answers := make(map[int64]int64, len(req.Answers))
	for _, answer := range req.Answers {
		answers[answer.QuestionID] = answer.OptionID
	}

	score, totalPoints := ScoreAttempt(questions, answers)
	percentage := 0.0
	if totalPoints > 0 {
		percentage = float64(score) / float64(totalPoints) * 100
	}

	attempt.SubmittedAt = &now
	attempt.Score = score
	attempt.Percentage = percentage
	if err := s.quizRepo.SubmitAttempt(ctx, attempt, answers); err != nil {
		return nil, err
	}

	return &dto.AttemptResultResponse{
		AttemptID:   attempt.ID,
		Score:       score,
		TotalPoints: totalPoints,
		Percentage:  percentage,
		SubmittedAt: now,
	}, nil
}

// GetAttemptResult returns the result of a student's own completed attempt
func (s *QuizService) GetAttemptResult(ctx context.Context, studentID, attemptID int64) (*models.QuizAttempt, error) {
	attempt, err := s.quizRepo.FindAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, apperrors.ErrPermissionDenied
	}
	return attempt, nil
}

// ListQuizAttempts returns all attempts on a quiz for staff review
func (s *QuizService) ListQuizAttempts(ctx context.Context, quizID int64) ([]*models.QuizAttempt, error) {
	if _, err := s.quizRepo.FindQuizByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.quizRepo.ListAttemptsByQuiz(ctx, quizID)
}

// ListStudentAttempts returns a student's own attempt history
func (s *QuizService) ListStudentAttempts(ctx context.Context, studentID int64) ([]*models.QuizAttempt, error) {
	return s.quizRepo.ListAttemptsByStudent(ctx, studentID)
}

// ScoreAttempt grades answers against the questions. Scoring is binary per
// question: the chosen option either matches the correct one for the full
// point value or contributes nothing. Unanswered and unknown questions score
// zero. Returns the earned score and the maximum possible.
func ScoreAttempt(questions []*models.Question, answers map[int64]int64) (score, totalPoints int) {
	for _, question := range questions {
		totalPoints += question.Points
		if optionID, ok := answers[question.ID]; ok && optionID == question.CorrectOptionID {
			score += question.Points
		}
	}
	return score, totalPoints
}
