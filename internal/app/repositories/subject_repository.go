package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/dberrors"
)

// SubjectRepository handles subject persistence
type SubjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

// Create inserts a new subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subjects (course_id, code, name, semester)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		subject.CourseID, subject.Code, subject.Name, subject.Semester,
	).Scan(&subject.ID, &subject.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_subjects_course_code") {
			return apperrors.ErrSubjectAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

// FindByID finds a subject by id together with its course
func (r *SubjectRepository) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	subject := &models.Subject{Course: &models.Course{}}
	err := r.pool.QueryRow(ctx, `
		SELECT s.id, s.course_id, s.code, s.name, s.semester, s.created_at,
			c.id, c.code, c.name, c.total_semesters, c.created_at
		FROM subjects s
		JOIN courses c ON c.id = s.course_id
		WHERE s.id = $1`, id,
	).Scan(
		&subject.ID, &subject.CourseID, &subject.Code, &subject.Name, &subject.Semester, &subject.CreatedAt,
		&subject.Course.ID, &subject.Course.Code, &subject.Course.Name,
		&subject.Course.TotalSemesters, &subject.Course.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to find subject: %w", err)
	}
	return subject, nil
}

// ListByCourse returns the subjects of a course, optionally filtered by semester
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseID int64, semester *int) ([]*models.Subject, error) {
	query := `
		SELECT id, course_id, code, name, semester, created_at
		FROM subjects WHERE course_id = $1`
	args := []interface{}{courseID}

	if semester != nil {
		query += ` AND semester = $2`
		args = append(args, *semester)
	}
	query += ` ORDER BY semester ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject := &models.Subject{}
		if err := rows.Scan(&subject.ID, &subject.CourseID, &subject.Code, &subject.Name, &subject.Semester, &subject.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// Update modifies an existing subject
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subjects SET code = $1, name = $2, semester = $3
		WHERE id = $4`,
		subject.Code, subject.Name, subject.Semester, subject.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_subjects_course_code") {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("failed to update subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// Delete removes a subject
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}
