package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/db"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
)

// DiscussionRepository handles discussion threads, replies and likes
type DiscussionRepository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewDiscussionRepository creates a new discussion repository
func NewDiscussionRepository(pool *pgxpool.Pool) *DiscussionRepository {
	return &DiscussionRepository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a new discussion thread
func (r *DiscussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO discussions (title, body, author_key, author_name, attachment_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		discussion.Title, discussion.Body, discussion.AuthorKey, discussion.AuthorName, discussion.AttachmentURL,
	).Scan(&discussion.ID, &discussion.CreatedAt, &discussion.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create discussion: %w", err)
	}
	return nil
}

// FindByID finds a discussion by id
func (r *DiscussionRepository) FindByID(ctx context.Context, id int64) (*models.Discussion, error) {
	discussion := &models.Discussion{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, body, author_key, author_name, attachment_url, likes_count, reply_count, created_at, updated_at
		FROM discussions WHERE id = $1`, id,
	).Scan(
		&discussion.ID, &discussion.Title, &discussion.Body, &discussion.AuthorKey,
		&discussion.AuthorName, &discussion.AttachmentURL, &discussion.LikesCount,
		&discussion.ReplyCount, &discussion.CreatedAt, &discussion.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDiscussionNotFound
		}
		return nil, fmt.Errorf("failed to find discussion: %w", err)
	}
	return discussion, nil
}

// List returns a page of discussions, newest first, with optional search
func (r *DiscussionRepository) List(ctx context.Context, search string, offset uint64, limit int) ([]*models.Discussion, int64, error) {
	conditions := sq.And{}
	if search != "" {
		pattern := "%" + search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"body": pattern},
		})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("discussions").Where(conditions).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count discussions: %w", err)
	}

	query, args, err := r.sb.Select("id", "title", "body", "author_key", "author_name", "attachment_url", "likes_count", "reply_count", "created_at", "updated_at").
		From("discussions").
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
		return nil, 0, fmt.Errorf("failed to list discussions: %w", err)
	}
	defer rows.Close()

	var discussions []*models.Discussion
	for rows.Next() {
		d := &models.Discussion{}
		err := rows.Scan(
			&d.ID, &d.Title, &d.Body, &d.AuthorKey, &d.AuthorName, &d.AttachmentURL,
			&d.LikesCount, &d.ReplyCount, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan discussion row: %w", err)
		}
		discussions = append(discussions, d)
	}
	return discussions, total, rows.Err()
}

// Delete removes a discussion and its replies and likes in one transaction
func (r *DiscussionRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM discussion_replies WHERE discussion_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete replies: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM discussion_likes WHERE discussion_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete likes: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM discussions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete discussion: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrDiscussionNotFound
		}
		return nil
	})
}

// AddLike records a like. Returns true when it was newly added; liking twice
// is a no-op.
func (r *DiscussionRepository) AddLike(ctx context.Context, discussionID int64, principalKey string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO discussion_likes (discussion_id, principal_key)
		VALUES ($1, $2)
		ON CONFLICT (discussion_id, principal_key) DO NOTHING`,
		discussionID, principalKey)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.pool.Exec(ctx,
		`UPDATE discussions SET likes_count = likes_count + 1 WHERE id = $1`, discussionID); err != nil {
		return false, fmt.Errorf("failed to increment likes count: %w", err)
	}
	return true, nil
}

// RemoveLike removes a like. Returns true when a like was actually removed.
func (r *DiscussionRepository) RemoveLike(ctx context.Context, discussionID int64, principalKey string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM discussion_likes WHERE discussion_id = $1 AND principal_key = $2`,
		discussionID, principalKey)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.pool.Exec(ctx,
		`UPDATE discussions SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, discussionID); err != nil {
		return false, fmt.Errorf("failed to decrement likes count: %w", err)
	}
	return true, nil
}

// HasLiked reports whether a principal already liked a discussion
func (r *DiscussionRepository) HasLiked(ctx context.Context, discussionID int64, principalKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM discussion_likes WHERE discussion_id = $1 AND principal_key = $2
		)`, discussionID, principalKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

// CreateReply inserts a reply and bumps the thread's reply count
func (r *DiscussionRepository) CreateReply(ctx context.Context, reply *models.DiscussionReply) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO discussion_replies (discussion_id, parent_reply_id, author_key, author_name, body)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			reply.DiscussionID, reply.ParentReplyID, reply.AuthorKey, reply.AuthorName, reply.Body,
		).Scan(&reply.ID, &reply.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create reply: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE discussions SET reply_count = reply_count + 1, updated_at = now() WHERE id = $1`,
			reply.DiscussionID); err != nil {
			return fmt.Errorf("failed to increment reply count: %w", err)
		}
		return nil
	})
}

// FindReplyByID finds a reply within a discussion
func (r *DiscussionRepository) FindReplyByID(ctx context.Context, discussionID, replyID int64) (*models.DiscussionReply, error) {
	reply := &models.DiscussionReply{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, discussion_id, parent_reply_id, author_key, author_name, body, created_at
		FROM discussion_replies WHERE id = $1 AND discussion_id = $2`, replyID, discussionID,
	).Scan(
		&reply.ID, &reply.DiscussionID, &reply.ParentReplyID,
		&reply.AuthorKey, &reply.AuthorName, &reply.Body, &reply.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReplyNotFound
		}
		return nil, fmt.Errorf("failed to find reply: %w", err)
	}
	return reply, nil
}

// ListReplies returns all replies of a discussion in chronological order
func (r *DiscussionRepository) ListReplies(ctx context.Context, discussionID int64) ([]*models.DiscussionReply, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, discussion_id, parent_reply_id, author_key, author_name, body, created_at
		FROM discussion_replies
		WHERE discussion_id = $1
		ORDER BY created_at ASC, id ASC`, discussionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	var replies []*models.DiscussionReply
	for rows.Next() {
		reply := &models.DiscussionReply{}
		err := rows.Scan(
			&reply.ID, &reply.DiscussionID, &reply.ParentReplyID,
			&reply.AuthorKey, &reply.AuthorName, &reply.Body, &reply.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %w", err)
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}

// DeleteReply removes a reply and its descendants, adjusting the reply count
// by the number of rows actually removed.
func (r *DiscussionRepository) DeleteReply(ctx context.Context, discussionID, replyID int64) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		// parent_reply_id cascades, so deleting the root removes the subtree
		tag, err := tx.Exec(ctx,
			`DELETE FROM discussion_replies WHERE id = $1 AND discussion_id = $2`, replyID, discussionID)
		if err != nil {
			return fmt.Errorf("failed to delete reply: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrReplyNotFound
		}

		// recount instead of decrementing, the cascade may have removed children
		if _, err := tx.Exec(ctx, `
			UPDATE discussions
			SET reply_count = (SELECT COUNT(*) FROM discussion_replies WHERE discussion_id = $1)
			WHERE id = $1`, discussionID); err != nil {
			return fmt.Errorf("failed to recount replies: %w", err)
		}
		return nil
	})
}
