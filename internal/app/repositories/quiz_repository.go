package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/dberrors"
)

// QuizRepository handles quizzes, questions, options and attempts
type QuizRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateQuiz inserts a new quiz in draft status
func (r *QuizRepository) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO quizzes (title, description, course_id, subject_id, status, duration_minutes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		quiz.Title, quiz.Description, quiz.CourseID, quiz.SubjectID,
		quiz.Status, quiz.DurationMinutes, quiz.CreatedBy,
	).Scan(&quiz.ID, &quiz.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

// FindQuizByID loads a quiz without its questions
func (r *QuizRepository) FindQuizByID(ctx context.Context, id int64) (*models.Quiz, error) {
	quiz := &models.Quiz{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, course_id, subject_id, status, duration_minutes, created_by, created_at
		FROM quizzes WHERE id = $1`, id,
	).Scan(
		&quiz.ID, &quiz.Title, &quiz.Description, &quiz.CourseID, &quiz.SubjectID,
		&quiz.Status, &quiz.DurationMinutes, &quiz.CreatedBy, &quiz.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to find quiz: %w", err)
	}
	return quiz, nil
}

// LoadQuestions loads the questions of a quiz with their options, ordered by position
func (r *QuizRepository) LoadQuestions(ctx context.Context, quizID int64) ([]*models.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quiz_id, text, points, position, COALESCE(correct_option_id, 0)
		FROM quiz_questions WHERE quiz_id = $1 ORDER BY position ASC, id ASC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	byID := make(map[int64]*models.Question)
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Points, &q.Position, &q.CorrectOptionID); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return questions, nil
	}

	optRows, err := r.pool.Query(ctx, `
		SELECT o.id, o.question_id, o.text, o.position
		FROM question_options o
		JOIN quiz_questions q ON q.id = o.question_id
		WHERE q.quiz_id = $1
		ORDER BY o.position ASC, o.id ASC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		opt := &models.QuestionOption{}
		if err := optRows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &opt.Position); err != nil {
			return nil, fmt.Errorf("failed to scan option row: %w", err)
		}
		if q, ok := byID[opt.QuestionID]; ok {
			q.Options = append(q.Options, opt)
		}
	}
	return questions, optRows.Err()
}

// ListQuizzes returns a page of quizzes with optional filters
func (r *QuizRepository) ListQuizzes(ctx context.Context, courseID, subjectID *int64, status *models.QuizStatus, offset uint64, limit int) ([]*models.Quiz, int64, error) {
	conditions := sq.And{}
	if courseID != nil {
		conditions = append(conditions, sq.Eq{"course_id": *courseID})
	}
	if subjectID != nil {
		conditions = append(conditions, sq.Eq{"subject_id": *subjectID})
	}
	if status != nil {
		conditions = append(conditions, sq.Eq{"status": *status})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("quizzes").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	query, args, err := r.sb.Select("id", "title", "description", "course_id", "subject_id", "status", "duration_minutes", "created_by", "created_at").
		From("quizzes").
		Where(conditions).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []*models.Quiz
	for rows.Next() {
		quiz := &models.Quiz{}
		err := rows.Scan(
			&quiz.ID, &quiz.Title, &quiz.Description, &quiz.CourseID, &quiz.SubjectID,
			&quiz.Status, &quiz.DurationMinutes, &quiz.CreatedBy, &quiz.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, total, rows.Err()
}

// UpdateQuiz modifies quiz metadata
func (r *QuizRepository) UpdateQuiz(ctx context.Context, quiz *models.Quiz) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quizzes
		SET title = $1, description = $2, course_id = $3, subject_id = $4, duration_minutes = $5
		WHERE id = $6`,
		quiz.Title, quiz.Description, quiz.CourseID, quiz.SubjectID, quiz.DurationMinutes, quiz.ID)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuizNotFound
	}
	return nil
}

// UpdateQuizStatus moves a quiz between draft and published
func (r *QuizRepository) UpdateQuizStatus(ctx context.Context, id int64, status models.QuizStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE quizzes SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update quiz status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuizNotFound
	}
	return nil
}

// DeleteQuiz removes a quiz, cascading to questions, options and attempts
func (r *QuizRepository) DeleteQuiz(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuizNotFound
	}
	return nil
}

// AddQuestion inserts a question with its options and records which option is
// correct. Runs in a transaction because the correct option id is only known
// after the options are inserted.
func (r *QuizRepository) AddQuestion(ctx context.Context, question *models.Question, optionTexts []string, correctIndex int) error {
	if correctIndex < 0 || correctIndex >= len(optionTexts) {
		return apperrors.NewBadRequestError("correct option index out of range")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO quiz_questions (quiz_id, text, points, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		question.QuizID, question.Text, question.Points, question.Position,
	).Scan(&question.ID)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	question.Options = make([]*models.QuestionOption, 0, len(optionTexts))
	for i, text := range optionTexts {
		opt := &models.QuestionOption{QuestionID: question.ID, Text: text, Position: i}
		err := tx.QueryRow(ctx, `
			INSERT INTO question_options (question_id, text, position)
			VALUES ($1, $2, $3)
			RETURNING id`,
			opt.QuestionID, opt.Text, opt.Position,
		).Scan(&opt.ID)
		if err != nil {
			return fmt.Errorf("failed to create option: %w", err)
		}
		question.Options = append(question.Options, opt)
	}

	question.CorrectOptionID = question.Options[correctIndex].ID
	if _, err := tx.Exec(ctx,
		`UPDATE quiz_questions SET correct_option_id = $1 WHERE id = $2`,
		question.CorrectOptionID, question.ID); err != nil {
		return fmt.Errorf("failed to set correct option: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteQuestion removes a question from a quiz
func (r *QuizRepository) DeleteQuestion(ctx context.Context, quizID, questionID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM quiz_questions WHERE id = $1 AND quiz_id = $2`, questionID, quizID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrQuestionNotFound
	}
	return nil
}

// CreateAttempt starts a quiz attempt. The unique index on (quiz_id,
// student_id) enforces one attempt per student.
func (r *QuizRepository) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO quiz_attempts (quiz_id, student_id, question_order, started_at, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		attempt.QuizID, attempt.StudentID, attempt.QuestionOrder,
		attempt.StartedAt, attempt.ExpiresAt, attempt.Status,
	).Scan(&attempt.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_quiz_attempts_quiz_student") {
			return apperrors.NewConflictError("quiz already attempted")
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// FindAttemptByID loads an attempt
func (r *QuizRepository) FindAttemptByID(ctx context.Context, id int64) (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, quiz_id, student_id, question_order, started_at, expires_at,
			submitted_at, score, percentage, status
		FROM quiz_attempts WHERE id = $1`, id,
	).Scan(
		&attempt.ID, &attempt.QuizID, &attempt.StudentID, &attempt.QuestionOrder,
		&attempt.StartedAt, &attempt.ExpiresAt, &attempt.SubmittedAt,
		&attempt.Score, &attempt.Percentage, &attempt.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to find attempt: %w", err)
	}
	return attempt, nil
}

// FindAttempt loads the attempt of a student for a quiz, if any
func (r *QuizRepository) FindAttempt(ctx context.Context, quizID, studentID int64) (*models.QuizAttempt, error) {
	attempt := &models.QuizAttempt{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, quiz_id, student_id, question_order, started_at, expires_at,
			submitted_at, score, percentage, status
		FROM quiz_attempts WHERE quiz_id = $1 AND student_id = $2`, quizID, studentID,
	).Scan(
		&attempt.ID, &attempt.QuizID, &attempt.StudentID, &attempt.QuestionOrder,
		&attempt.StartedAt, &attempt.ExpiresAt, &attempt.SubmittedAt,
		&attempt.Score, &attempt.Percentage, &attempt.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to find attempt: %w", err)
	}
	return attempt, nil
}

// SubmitAttempt stores the answers and the computed result in one transaction
func (r *QuizRepository) SubmitAttempt(ctx context.Context, attempt *models.QuizAttempt, answers map[int64]int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for questionID, optionID := range answers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO attempt_answers (attempt_id, question_id, option_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (attempt_id, question_id) DO UPDATE SET option_id = EXCLUDED.option_id`,
			attempt.ID, questionID, optionID); err != nil {
			return fmt.Errorf("failed to store answer: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE quiz_attempts
		SET submitted_at = $1, score = $2, percentage = $3, status = $4
		WHERE id = $5 AND status = $6`,
		attempt.SubmittedAt, attempt.Score, attempt.Percentage,
		models.AttemptCompleted, attempt.ID, models.AttemptInProgress)
	if err != nil {
		return fmt.Errorf("failed to finalize attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAttemptAlreadyClosed
	}

	return tx.Commit(ctx)
}

// ListAttemptsByQuiz returns completed attempts for staff review, best first
func (r *QuizRepository) ListAttemptsByQuiz(ctx context.Context, quizID int64) ([]*models.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quiz_id, student_id, question_order, started_at, expires_at,
			submitted_at, score, percentage, status
		FROM quiz_attempts
		WHERE quiz_id = $1
		ORDER BY score DESC, submitted_at ASC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// ListAttemptsByStudent returns a student's attempt history, newest first
func (r *QuizRepository) ListAttemptsByStudent(ctx context.Context, studentID int64) ([]*models.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quiz_id, student_id, question_order, started_at, expires_at,
			submitted_at, score, percentage, status
		FROM quiz_attempts
		WHERE student_id = $1
		ORDER BY started_at DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

func scanAttempts(rows pgx.Rows) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	for rows.Next() {
		attempt := &models.QuizAttempt{}
		err := rows.Scan(
			&attempt.ID, &attempt.QuizID, &attempt.StudentID, &attempt.QuestionOrder,
			&attempt.StartedAt, &attempt.ExpiresAt, &attempt.SubmittedAt,
			&attempt.Score, &attempt.Percentage, &attempt.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}
