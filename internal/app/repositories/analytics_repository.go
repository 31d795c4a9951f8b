package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models/dto"
)

// AnalyticsRepository computes aggregate statistics for the admin dashboard
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Overview returns the entity counts shown on the dashboard landing page
func (r *AnalyticsRepository) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	overview := &dto.OverviewResponse{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM subjects),
			(SELECT COUNT(*) FROM notices),
			(SELECT COUNT(*) FROM study_materials),
			(SELECT COUNT(*) FROM quizzes),
			(SELECT COUNT(*) FROM discussions),
			(SELECT COUNT(*) FROM timeline_posts),
			(SELECT COUNT(*) FROM certificates)`,
	).Scan(
		&overview.Students, &overview.Staff, &overview.Courses, &overview.Subjects,
		&overview.Notices, &overview.Materials, &overview.Quizzes, &overview.Discussions,
		&overview.Posts, &overview.Certificates,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute overview: %w", err)
	}
	return overview, nil
}

// RegistrationsPerDay buckets student registrations by day since the cutoff
func (r *AnalyticsRepository) RegistrationsPerDay(ctx context.Context, since time.Time) ([]dto.DayBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at)::date AS day, COUNT(*)
		FROM students
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to compute registrations per day: %w", err)
	}
	defer rows.Close()

	var buckets []dto.DayBucket
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan day bucket: %w", err)
		}
		buckets = append(buckets, dto.DayBucket{Day: day.Format("2006-01-02"), Count: count})
	}
	return buckets, rows.Err()
}

// StudentsPerCourse groups enrolled students by course name
func (r *AnalyticsRepository) StudentsPerCourse(ctx context.Context) ([]dto.GroupBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.name, COUNT(s.id)
		FROM courses c
		LEFT JOIN students s ON s.course_id = c.id
		GROUP BY c.name
		ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute students per course: %w", err)
	}
	defer rows.Close()

	return scanGroupBuckets(rows)
}

// StudentsPerSemester groups students by semester number. Students without a
// semester fall into an Unassigned bucket.
func (r *AnalyticsRepository) StudentsPerSemester(ctx context.Context) ([]dto.GroupBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE('Semester ' || semester, 'Unassigned'), COUNT(*)
		FROM students
		GROUP BY semester
		ORDER BY semester ASC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute students per semester: %w", err)
	}
	defer rows.Close()

	return scanGroupBuckets(rows)
}

// NoticesByType groups notices by their type
func (r *AnalyticsRepository) NoticesByType(ctx context.Context) ([]dto.GroupBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT type, COUNT(*)
		FROM notices
		GROUP BY type
		ORDER BY type ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute notices by type: %w", err)
	}
	defer rows.Close()

	return scanGroupBuckets(rows)
}

// QuizAverages returns the average score percentage per published quiz
func (r *AnalyticsRepository) QuizAverages(ctx context.Context) ([]dto.GroupBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.title, COALESCE(ROUND(AVG(a.percentage))::bigint, 0)
		FROM quizzes q
		LEFT JOIN quiz_attempts a ON a.quiz_id = q.id AND a.status = 'completed'
		WHERE q.status = 'published'
		GROUP BY q.id, q.title
		ORDER BY q.title ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute quiz averages: %w", err)
	}
	defer rows.Close()

	return scanGroupBuckets(rows)
}

// MaterialDownloads returns the most downloaded materials
func (r *AnalyticsRepository) MaterialDownloads(ctx context.Context, limit int) ([]dto.GroupBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT title, download_count
		FROM study_materials
		ORDER BY download_count DESC, title ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute material downloads: %w", err)
	}
	defer rows.Close()

	return scanGroupBuckets(rows)
}

func scanGroupBuckets(rows pgx.Rows) ([]dto.GroupBucket, error) {
	var buckets []dto.GroupBucket
	for rows.Next() {
		var bucket dto.GroupBucket
		if err := rows.Scan(&bucket.Key, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan group bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}
