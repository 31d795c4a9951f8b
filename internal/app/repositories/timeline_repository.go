package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/db"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
)

// TimelineRepository handles timeline posts, likes and comments
type TimelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository creates a new timeline repository
func NewTimelineRepository(pool *pgxpool.Pool) *TimelineRepository {
	return &TimelineRepository{pool: pool}
}

// CreatePost inserts a new timeline post
func (r *TimelineRepository) CreatePost(ctx context.Context, post *models.TimelinePost) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO timeline_posts (author_key, author_name, body, visibility, attachment_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		post.AuthorKey, post.AuthorName, post.Body, post.Visibility, post.AttachmentURL,
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindPostByID finds a post by id, annotating whether the caller liked it
func (r *TimelineRepository) FindPostByID(ctx context.Context, id int64, callerKey string) (*models.TimelinePost, error) {
	post := &models.TimelinePost{}
	err := r.pool.QueryRow(ctx, `
		SELECT p.id, p.author_key, p.author_name, p.body, p.visibility, p.attachment_url,
			p.likes_count, p.comments_count, p.created_at,
			EXISTS (SELECT 1 FROM timeline_likes l WHERE l.post_id = p.id AND l.principal_key = $2)
		FROM timeline_posts p WHERE p.id = $1`, id, callerKey,
	).Scan(
		&post.ID, &post.AuthorKey, &post.AuthorName, &post.Body, &post.Visibility,
		&post.AttachmentURL, &post.LikesCount, &post.CommentsCount, &post.CreatedAt,
		&post.LikedByCaller,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return post, nil
}

// ListPosts returns a page of posts limited to the given visibilities,
// newest first. Posts by the caller are always included.
func (r *TimelineRepository) ListPosts(ctx context.Context, visibilities []models.PostVisibility, callerKey string, offset uint64, limit int) ([]*models.TimelinePost, int64, error) {
	where := ` WHERE (p.visibility = ANY($1) OR p.author_key = $2)`
	args := []interface{}{visibilities, callerKey}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM timeline_posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.author_key, p.author_name, p.body, p.visibility, p.attachment_url,
			p.likes_count, p.comments_count, p.created_at,
			EXISTS (SELECT 1 FROM timeline_likes l WHERE l.post_id = p.id AND l.principal_key = $2)
		FROM timeline_posts p`+where+`
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4`, visibilities, callerKey, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.TimelinePost
	for rows.Next() {
		post := &models.TimelinePost{}
		err := rows.Scan(
			&post.ID, &post.AuthorKey, &post.AuthorName, &post.Body, &post.Visibility,
			&post.AttachmentURL, &post.LikesCount, &post.CommentsCount, &post.CreatedAt,
			&post.LikedByCaller,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

// DeletePost removes a post, cascading to likes and comments
func (r *TimelineRepository) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM timeline_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// AddLike records a like, returns true when newly added
func (r *TimelineRepository) AddLike(ctx context.Context, postID int64, principalKey string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO timeline_likes (post_id, principal_key)
		VALUES ($1, $2)
		ON CONFLICT (post_id, principal_key) DO NOTHING`, postID, principalKey)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.pool.Exec(ctx,
		`UPDATE timeline_posts SET likes_count = likes_count + 1 WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("failed to increment likes count: %w", err)
	}
	return true, nil
}

// RemoveLike removes a like, returns true when one was actually removed
func (r *TimelineRepository) RemoveLike(ctx context.Context, postID int64, principalKey string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM timeline_likes WHERE post_id = $1 AND principal_key = $2`, postID, principalKey)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := r.pool.Exec(ctx,
		`UPDATE timeline_posts SET likes_count = GREATEST(likes_count - 1, 0) WHERE id = $1`, postID); err != nil {
		return false, fmt.Errorf("failed to decrement likes count: %w", err)
	}
	return true, nil
}

// CreateComment inserts a comment and bumps the post's comment count
func (r *TimelineRepository) CreateComment(ctx context.Context, comment *models.TimelineComment) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO timeline_comments (post_id, author_key, author_name, body)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			comment.PostID, comment.AuthorKey, comment.AuthorName, comment.Body,
		).Scan(&comment.ID, &comment.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE timeline_posts SET comments_count = comments_count + 1 WHERE id = $1`,
			comment.PostID); err != nil {
			return fmt.Errorf("failed to increment comments count: %w", err)
		}
		return nil
	})
}

// FindCommentByID finds a comment on a post
func (r *TimelineRepository) FindCommentByID(ctx context.Context, postID, commentID int64) (*models.TimelineComment, error) {
	comment := &models.TimelineComment{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, post_id, author_key, author_name, body, created_at
		FROM timeline_comments WHERE id = $1 AND post_id = $2`, commentID, postID,
	).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorKey,
		&comment.AuthorName, &comment.Body, &comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the comments of a post in chronological order
func (r *TimelineRepository) ListComments(ctx context.Context, postID int64) ([]*models.TimelineComment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, author_key, author_name, body, created_at
		FROM timeline_comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.TimelineComment
	for rows.Next() {
		comment := &models.TimelineComment{}
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.AuthorKey,
			&comment.AuthorName, &comment.Body, &comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment and decrements the post's comment count
func (r *TimelineRepository) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM timeline_comments WHERE id = $1 AND post_id = $2`, commentID, postID)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCommentNotFound
		}

		if _, err := tx.Exec(ctx,
			`UPDATE timeline_posts SET comments_count = GREATEST(comments_count - 1, 0) WHERE id = $1`,
			postID); err != nil {
			return fmt.Errorf("failed to decrement comments count: %w", err)
		}
		return nil
	})
}
