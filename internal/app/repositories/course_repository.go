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

// CourseRepository handles course persistence
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO courses (code, name, total_semesters)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		course.Code, course.Name, course.TotalSemesters,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// FindByID finds a course by id
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	course := &models.Course{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, name, total_semesters, created_at
		FROM courses WHERE id = $1`, id,
	).Scan(&course.ID, &course.Code, &course.Name, &course.TotalSemesters, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	return course, nil
}

// List returns all courses ordered by name
func (r *CourseRepository) List(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, name, total_semesters, created_at
		FROM courses ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Code, &course.Name, &course.TotalSemesters, &course.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// Update modifies an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE courses SET code = $1, name = $2, total_semesters = $3
		WHERE id = $4`,
		course.Code, course.Name, course.TotalSemesters, course.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course. Fails while subjects or enrolled students still
// reference it so admins do not orphan rows by accident.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	var dependents int64
	if err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM students WHERE course_id = $1)
		     + (SELECT COUNT(*) FROM subjects WHERE course_id = $1)`, id).Scan(&dependents); err != nil {
		return fmt.Errorf("failed to count course dependents: %w", err)
	}
	if dependents > 0 {
		return apperrors.ErrCourseHasRelations
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}
