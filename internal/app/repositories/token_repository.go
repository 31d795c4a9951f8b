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

// RefreshToken is a stored refresh token bound to an account
type RefreshToken struct {
	ID          int64
	Token       string
	AccountType models.RoleType
	AccountID   int64
	ExpiresAt   time.Time
	Revoked     bool
	CreatedAt   time.Time
}

// TokenRepository manages refresh tokens
type TokenRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Store saves a refresh token for an account
func (r *TokenRepository) Store(ctx context.Context, token string, accountType models.RoleType, accountID int64, expiresAt time.Time) error {
	query, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "account_type", "account_id", "expires_at").
		Values(token, accountType, accountID, expiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Find looks up a refresh token and validates its state
func (r *TokenRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {
	query, args, err := r.sb.Select("id", "token", "account_type", "account_id", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rt := &RefreshToken{}
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&rt.ID, &rt.Token, &rt.AccountType, &rt.AccountID, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	if rt.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}
	return rt, nil
}

// Revoke marks a refresh token as revoked
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	query, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllForAccount revokes every token of an account, used on password change
func (r *TokenRepository) RevokeAllForAccount(ctx context.Context, accountType models.RoleType, accountID int64) error {
	query, args, err := r.sb.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"account_type": accountType, "account_id": accountID, "revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to revoke account tokens: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens past their expiry, returns the number removed
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Delete("refresh_tokens").
		Where(sq.Lt{"expires_at": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
