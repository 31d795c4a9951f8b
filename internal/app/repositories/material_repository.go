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
)

// MaterialRepository handles study material persistence
type MaterialRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a material with its attachments in one transaction
func (r *MaterialRepository) Create(ctx context.Context, material *models.StudyMaterial) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO study_materials (title, description, course_id, subject_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		material.Title, material.Description, material.CourseID, material.SubjectID, material.CreatedBy,
	).Scan(&material.ID, &material.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}

	for _, att := range material.Attachments {
		att.MaterialID = material.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO material_attachments (material_id, file_name, file_url, file_size)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			att.MaterialID, att.FileName, att.FileURL, att.FileSize,
		).Scan(&att.ID, &att.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create attachment: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByID loads a material with its attachments
func (r *MaterialRepository) FindByID(ctx context.Context, id int64) (*models.StudyMaterial, error) {
	material := &models.StudyMaterial{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, course_id, subject_id, download_count, created_by, created_at
		FROM study_materials WHERE id = $1`, id,
	).Scan(
		&material.ID, &material.Title, &material.Description, &material.CourseID,
		&material.SubjectID, &material.DownloadCount, &material.CreatedBy, &material.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to find material: %w", err)
	}

	attachments, err := r.loadAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	material.Attachments = attachments
	return material, nil
}

func (r *MaterialRepository) loadAttachments(ctx context.Context, materialID int64) ([]*models.MaterialAttachment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, material_id, file_name, file_url, file_size, created_at
		FROM material_attachments WHERE material_id = $1 ORDER BY id ASC`, materialID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.MaterialAttachment
	for rows.Next() {
		att := &models.MaterialAttachment{}
		if err := rows.Scan(&att.ID, &att.MaterialID, &att.FileName, &att.FileURL, &att.FileSize, &att.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment row: %w", err)
		}
		attachments = append(attachments, att)
	}
	return attachments, rows.Err()
}

// List returns a page of materials filtered by course and subject
func (r *MaterialRepository) List(ctx context.Context, courseID, subjectID *int64, search string, offset uint64, limit int) ([]*models.StudyMaterial, int64, error) {
	conditions := sq.And{}
	if courseID != nil {
		conditions = append(conditions, sq.Eq{"course_id": *courseID})
	}
	if subjectID != nil {
		conditions = append(conditions, sq.Eq{"subject_id": *subjectID})
	}
	if search != "" {
		conditions = append(conditions, sq.ILike{"title": "%" + search + "%"})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("study_materials").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count materials: %w", err)
	}

	query, args, err := r.sb.Select("id", "title", "description", "course_id", "subject_id", "download_count", "created_by", "created_at").
		From("study_materials").
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
		return nil, 0, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var materials []*models.StudyMaterial
	for rows.Next() {
		material := &models.StudyMaterial{}
		err := rows.Scan(
			&material.ID, &material.Title, &material.Description, &material.CourseID,
			&material.SubjectID, &material.DownloadCount, &material.CreatedBy, &material.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan material row: %w", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, material := range materials {
		attachments, err := r.loadAttachments(ctx, material.ID)
		if err != nil {
			return nil, 0, err
		}
		material.Attachments = attachments
	}
	return materials, total, nil
}

// Update modifies the material metadata
func (r *MaterialRepository) Update(ctx context.Context, material *models.StudyMaterial) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE study_materials
		SET title = $1, description = $2, course_id = $3, subject_id = $4
		WHERE id = $5`,
		material.Title, material.Description, material.CourseID, material.SubjectID, material.ID)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}

// Delete removes a material and returns the attachment URLs so the caller
// can clean up stored files.
func (r *MaterialRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	attachments, err := r.loadAttachments(ctx, id)
	if err != nil {
		return nil, err
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM study_materials WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrMaterialNotFound
	}

	urls := make([]string, 0, len(attachments))
	for _, att := range attachments {
		urls = append(urls, att.FileURL)
	}
	return urls, nil
}

// IncrementDownloadCount bumps the download counter in a single statement
func (r *MaterialRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE study_materials SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment download count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMaterialNotFound
	}
	return nil
}
