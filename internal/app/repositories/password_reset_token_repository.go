package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
)

// PasswordResetToken is a single-use token for resetting a password
type PasswordResetToken struct {
	ID          int64
	Token       string
	AccountType models.RoleType
	AccountID   int64
	ExpiresAt   time.Time
	Used        bool
	CreatedAt   time.Time
}

// PasswordResetTokenRepository manages password reset tokens
type PasswordResetTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetTokenRepository creates a new password reset token repository
func NewPasswordResetTokenRepository(pool *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{pool: pool}
}

// Store saves a password reset token
func (r *PasswordResetTokenRepository) Store(ctx context.Context, token string, accountType models.RoleType, accountID int64, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (token, account_type, account_id, expires_at)
		VALUES ($1, $2, $3, $4)`,
		token, accountType, accountID, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store password reset token: %w", err)
	}
	return nil
}

// Find looks up a reset token and validates its state
func (r *PasswordResetTokenRepository) Find(ctx context.Context, token string) (*PasswordResetToken, error) {
	prt := &PasswordResetToken{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, token, account_type, account_id, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = $1`, token).Scan(
		&prt.ID, &prt.Token, &prt.AccountType, &prt.AccountID, &prt.ExpiresAt, &prt.Used, &prt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidPasswordResetToken
		}
		return nil, fmt.Errorf("failed to find password reset token: %w", err)
	}

	if prt.Used {
		return nil, apperrors.ErrPasswordResetTokenUsed
	}
	if time.Now().After(prt.ExpiresAt) {
		return nil, apperrors.ErrInvalidPasswordResetToken
	}
	return prt, nil
}

// MarkUsed consumes a reset token so it cannot be replayed
func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE token = $1 AND used = FALSE`, token)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPasswordResetTokenUsed
	}
	return nil
}
