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
)

// NoticeRepository handles notice persistence
type NoticeRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewNoticeRepository creates a new notice repository
func NewNoticeRepository(pool *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const noticeColumns = `id, title, description, type, status, cover_url,
	publish_start, publish_end, created_by, created_at, updated_at`

func scanNotice(row pgx.Row) (*models.Notice, error) {
	notice := &models.Notice{}
	err := row.Scan(
		&notice.ID, &notice.Title, &notice.Description, &notice.Type, &notice.Status,
		&notice.CoverURL, &notice.PublishStart, &notice.PublishEnd,
		&notice.CreatedBy, &notice.CreatedAt, &notice.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoticeNotFound
		}
		return nil, fmt.Errorf("failed to scan notice: %w", err)
	}
	return notice, nil
}

// Create inserts a new notice
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notices (title, description, type, status, cover_url, publish_start, publish_end, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		notice.Title, notice.Description, notice.Type, notice.Status,
		notice.CoverURL, notice.PublishStart, notice.PublishEnd, notice.CreatedBy,
	).Scan(&notice.ID, &notice.CreatedAt, &notice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}
	return nil
}

// FindByID finds a notice by id
func (r *NoticeRepository) FindByID(ctx context.Context, id int64) (*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1`
	return scanNotice(r.pool.QueryRow(ctx, query, id))
}

// Update modifies an existing notice
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notices
		SET title = $1, description = $2, type = $3, status = $4, cover_url = $5,
			publish_start = $6, publish_end = $7, updated_at = now()
		WHERE id = $8`,
		notice.Title, notice.Description, notice.Type, notice.Status, notice.CoverURL,
		notice.PublishStart, notice.PublishEnd, notice.ID)
	if err != nil {
		return fmt.Errorf("failed to update notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// Delete removes a notice
func (r *NoticeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoticeNotFound
	}
	return nil
}

// ListVisible returns published notices whose publish window contains now,
// newest first. Used for the public feed.
func (r *NoticeRepository) ListVisible(ctx context.Context, noticeType *models.NoticeType, now time.Time, offset uint64, limit int) ([]*models.Notice, int64, error) {
	conditions := sq.And{
		sq.Eq{"status": models.NoticePublished},
		sq.Or{sq.Eq{"publish_start": nil}, sq.LtOrEq{"publish_start": now}},
		sq.Or{sq.Eq{"publish_end": nil}, sq.GtOrEq{"publish_end": now}},
	}
	if noticeType != nil {
		conditions = append(conditions, sq.Eq{"type": *noticeType})
	}

	return r.listPage(ctx, conditions, offset, limit)
}

// ListAll returns every notice regardless of status, for staff management
func (r *NoticeRepository) ListAll(ctx context.Context, noticeType *models.NoticeType, status *models.NoticeStatus, offset uint64, limit int) ([]*models.Notice, int64, error) {
	conditions := sq.And{}
	if noticeType != nil {
		conditions = append(conditions, sq.Eq{"type": *noticeType})
	}
	if status != nil {
		conditions = append(conditions, sq.Eq{"status": *status})
	}

	return r.listPage(ctx, conditions, offset, limit)
}

func (r *NoticeRepository) listPage(ctx context.Context, conditions sq.And, offset uint64, limit int) ([]*models.Notice, int64, error) {
	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("notices").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notices: %w", err)
	}

	query, args, err := r.sb.Select(noticeColumns).
		From("notices").
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
		return nil, 0, fmt.Errorf("failed to list notices: %w", err)
	}
	defer rows.Close()

	var notices []*models.Notice
	for rows.Next() {
		notice := &models.Notice{}
		err := rows.Scan(
			&notice.ID, &notice.Title, &notice.Description, &notice.Type, &notice.Status,
			&notice.CoverURL, &notice.PublishStart, &notice.PublishEnd,
			&notice.CreatedBy, &notice.CreatedAt, &notice.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notice row: %w", err)
		}
		notices = append(notices, notice)
	}
	return notices, total, rows.Err()
}
