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

// CertificateRepository handles certificate types and issued certificates
type CertificateRepository struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

// CreateType inserts a new certificate type
func (r *CertificateRepository) CreateType(ctx context.Context, ct *models.CertificateType) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO certificate_types (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		ct.Name, ct.Description,
	).Scan(&ct.ID, &ct.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_certificate_types_name") {
			return apperrors.ErrCertificateTypeExists
		}
		return fmt.Errorf("failed to create certificate type: %w", err)
	}
	return nil
}

// FindTypeByID finds a certificate type by id
func (r *CertificateRepository) FindTypeByID(ctx context.Context, id int64) (*models.CertificateType, error) {
	ct := &models.CertificateType{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM certificate_types WHERE id = $1`, id,
	).Scan(&ct.ID, &ct.Name, &ct.Description, &ct.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCertificateTypeNotFound
		}
		return nil, fmt.Errorf("failed to find certificate type: %w", err)
	}
	return ct, nil
}

// ListTypes returns all certificate types
func (r *CertificateRepository) ListTypes(ctx context.Context) ([]*models.CertificateType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, created_at
		FROM certificate_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificate types: %w", err)
	}
	defer rows.Close()

	var types []*models.CertificateType
	for rows.Next() {
		ct := &models.CertificateType{}
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Description, &ct.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan certificate type row: %w", err)
		}
		types = append(types, ct)
	}
	return types, rows.Err()
}

// DeleteType removes a certificate type unless certificates reference it
func (r *CertificateRepository) DeleteType(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM certificate_types WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCertificateTypeHasRelations
		}
		return fmt.Errorf("failed to delete certificate type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCertificateTypeNotFound
	}
	return nil
}

const certificateSelect = `
	SELECT c.id, c.student_id, c.type_id, c.serial_no, c.issue_date, c.status, c.created_at,
		s.name, t.name
	FROM certificates c
	JOIN students s ON s.id = c.student_id
	JOIN certificate_types t ON t.id = c.type_id`

// Issue inserts an issued certificate
func (r *CertificateRepository) Issue(ctx context.Context, cert *models.Certificate) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO certificates (student_id, type_id, serial_no, issue_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		cert.StudentID, cert.TypeID, cert.SerialNo, cert.IssueDate, cert.Status,
	).Scan(&cert.ID, &cert.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_certificates_serial") {
			return apperrors.NewConflictError("certificate serial already exists")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("failed to issue certificate: %w", err)
	}
	return nil
}

// FindByID loads a certificate with student and type names
func (r *CertificateRepository) FindByID(ctx context.Context, id int64) (*models.Certificate, error) {
	cert := &models.Certificate{}
	err := r.pool.QueryRow(ctx, certificateSelect+` WHERE c.id = $1`, id).Scan(
		&cert.ID, &cert.StudentID, &cert.TypeID, &cert.SerialNo, &cert.IssueDate,
		&cert.Status, &cert.CreatedAt, &cert.StudentName, &cert.TypeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to find certificate: %w", err)
	}
	return cert, nil
}

// ListByStudent returns the certificates issued to a student
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Certificate, error) {
	rows, err := r.pool.Query(ctx, certificateSelect+`
		WHERE c.student_id = $1
		ORDER BY c.issue_date DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	return scanCertificates(rows)
}

// List returns a page of all certificates for admin review
func (r *CertificateRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Certificate, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count certificates: %w", err)
	}

	rows, err := r.pool.Query(ctx, certificateSelect+`
		ORDER BY c.issue_date DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	certs, err := scanCertificates(rows)
	return certs, total, err
}

func scanCertificates(rows pgx.Rows) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	for rows.Next() {
		cert := &models.Certificate{}
		err := rows.Scan(
			&cert.ID, &cert.StudentID, &cert.TypeID, &cert.SerialNo, &cert.IssueDate,
			&cert.Status, &cert.CreatedAt, &cert.StudentName, &cert.TypeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate row: %w", err)
		}
		certs = append(certs, cert)
	}
	return certs, rows.Err()
}

// UpdateStatus moves a certificate between issued and revoked
func (r *CertificateRepository) UpdateStatus(ctx context.Context, id int64, status models.CertificateStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE certificates SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update certificate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCertificateNotFound
	}
	return nil
}

// Delete removes a certificate record
func (r *CertificateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM certificates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCertificateNotFound
	}
	return nil
}
