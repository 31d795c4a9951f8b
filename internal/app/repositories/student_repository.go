package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/dberrors"
)

// StudentRepository handles student persistence
type StudentRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const studentColumns = `s.id, s.roll_no, s.email, s.name, s.password, s.course_id, s.semester,
	s.about, s.avatar_url, s.status, s.created_at, s.updated_at`

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(
		&student.ID, &student.RollNo, &student.Email, &student.Name, &student.Password,
		&student.CourseID, &student.Semester, &student.About, &student.AvatarURL,
		&student.Status, &student.CreatedAt, &student.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return student, nil
}

// Create inserts a new student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (roll_no, email, name, password, course_id, semester, about, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		student.RollNo, student.Email, student.Name, student.Password,
		student.CourseID, student.Semester, student.About, student.Status,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_students_roll_no") {
			return apperrors.ErrRollNoAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "idx_students_email") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// FindByID finds a student by id
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.id = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

// FindByRollNo finds a student by roll number
func (r *StudentRepository) FindByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE s.roll_no = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, rollNo))
}

// FindByEmail finds a student by email, case-insensitive
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s WHERE lower(s.email) = lower($1)`
	return scanStudent(r.pool.QueryRow(ctx, query, email))
}

// FindByIDWithCourse loads a student together with the enrolled course
func (r *StudentRepository) FindByIDWithCourse(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT ` + studentColumns + `,
			c.id, c.code, c.name, c.total_semesters, c.created_at
		FROM students s
		LEFT JOIN courses c ON c.id = s.course_id
		WHERE s.id = $1`

	student := &models.Student{}
	var courseID *int64
	var courseCode, courseName *string
	var totalSemesters *int
	var courseCreatedAt *time.Time

	row := r.pool.QueryRow(ctx, query, id)
	err := row.Scan(
		&student.ID, &student.RollNo, &student.Email, &student.Name, &student.Password,
		&student.CourseID, &student.Semester, &student.About, &student.AvatarURL,
		&student.Status, &student.CreatedAt, &student.UpdatedAt,
		&courseID, &courseCode, &courseName, &totalSemesters, &courseCreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student with course: %w", err)
	}

	if courseID != nil {
		student.Course = &models.Course{
			ID:             *courseID,
			Code:           *courseCode,
			Name:           *courseName,
			TotalSemesters: *totalSemesters,
		}
		if courseCreatedAt != nil {
			student.Course.CreatedAt = *courseCreatedAt
		}
	}
	return student, nil
}

// UpdateProfile updates the mutable profile fields of a student
func (r *StudentRepository) UpdateProfile(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET name = $1, course_id = $2, semester = $3, about = $4, avatar_url = $5, updated_at = now()
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		student.Name, student.CourseID, student.Semester, student.About, student.AvatarURL, student.ID)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *StudentRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET password = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update student password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdateStatus sets the account status
func (r *StudentRepository) UpdateStatus(ctx context.Context, id int64, status models.AccountStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update student status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// List returns a page of students with optional course and semester filters
func (r *StudentRepository) List(ctx context.Context, courseID *int64, semester *int, search string, offset uint64, limit int) ([]*models.Student, int64, error) {
	conditions := sq.And{}
	if courseID != nil {
		conditions = append(conditions, sq.Eq{"s.course_id": *courseID})
	}
	if semester != nil {
		conditions = append(conditions, sq.Eq{"s.semester": *semester})
	}
	if search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"s.name": pattern},
			sq.ILike{"s.roll_no": pattern},
		})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("students s").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query, args, err := r.sb.Select(studentColumns).
		From("students s").
		Where(conditions).
		OrderBy("s.name ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		err := rows.Scan(
			&student.ID, &student.RollNo, &student.Email, &student.Name, &student.Password,
			&student.CourseID, &student.Semester, &student.About, &student.AvatarURL,
			&student.Status, &student.CreatedAt, &student.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, student)
	}
	return students, total, rows.Err()
}

// Delete removes a student
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
