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
	"github.com/crestview/chronicle/internal/pkg/dberrors"
)

// ChatRepository handles direct chat sessions, group chats and messages
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// FindSessionByParticipants finds the session for a normalized participant pair
func (r *ChatRepository) FindSessionByParticipants(ctx context.Context, low, high string) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, participant_low, participant_high, last_message, last_message_at, created_at
		FROM chat_sessions WHERE participant_low = $1 AND participant_high = $2`, low, high,
	).Scan(
		&session.ID, &session.ParticipantLow, &session.ParticipantHigh,
		&session.LastMessage, &session.LastMessageAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("failed to find chat session: %w", err)
	}
	return session, nil
}

// CreateSession inserts a session for a participant pair. The unique index on
// the pair makes repeated opens converge on one session.
func (r *ChatRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_sessions (participant_low, participant_high)
		VALUES ($1, $2)
		RETURNING id, created_at`,
		session.ParticipantLow, session.ParticipantHigh,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "idx_chat_sessions_participants") {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

// FindSessionByID finds a session by id
func (r *ChatRepository) FindSessionByID(ctx context.Context, id int64) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, participant_low, participant_high, last_message, last_message_at, created_at
		FROM chat_sessions WHERE id = $1`, id,
	).Scan(
		&session.ID, &session.ParticipantLow, &session.ParticipantHigh,
		&session.LastMessage, &session.LastMessageAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("failed to find chat session: %w", err)
	}
	return session, nil
}

// ListSessionsForPrincipal returns the sessions a principal participates in,
// most recently active first.
func (r *ChatRepository) ListSessionsForPrincipal(ctx context.Context, principalKey string) ([]*models.ChatSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, participant_low, participant_high, last_message, last_message_at, created_at
		FROM chat_sessions
		WHERE participant_low = $1 OR participant_high = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC`, principalKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.ChatSession
	for rows.Next() {
		session := &models.ChatSession{}
		err := rows.Scan(
			&session.ID, &session.ParticipantLow, &session.ParticipantHigh,
			&session.LastMessage, &session.LastMessageAt, &session.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and its messages in one transaction
func (r *ChatRepository) DeleteSession(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete session messages: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete chat session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrChatSessionNotFound
		}
		return nil
	})
}

// CreateGroup inserts a group chat with its initial members
func (r *ChatRepository) CreateGroup(ctx context.Context, group *models.GroupChat) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO group_chats (name, description, created_by)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			group.Name, group.Description, group.CreatedBy,
		).Scan(&group.ID, &group.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create group chat: %w", err)
		}

		for _, member := range group.MemberKeys {
			if _, err := tx.Exec(ctx, `
				INSERT INTO group_chat_members (group_id, member_key)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, group.ID, member); err != nil {
				return fmt.Errorf("failed to add group member: %w", err)
			}
		}
		return nil
	})
}

// FindGroupByID loads a group chat with its member keys
func (r *ChatRepository) FindGroupByID(ctx context.Context, id int64) (*models.GroupChat, error) {
	group := &models.GroupChat{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_by, last_message, last_message_at, created_at
		FROM group_chats WHERE id = $1`, id,
	).Scan(
		&group.ID, &group.Name, &group.Description, &group.CreatedBy,
		&group.LastMessage, &group.LastMessageAt, &group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupChatNotFound
		}
		return nil, fmt.Errorf("failed to find group chat: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT member_key FROM group_chat_members WHERE group_id = $1 ORDER BY joined_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		group.MemberKeys = append(group.MemberKeys, key)
	}
	return group, rows.Err()
}

// ListGroupsForPrincipal returns the groups a principal belongs to
func (r *ChatRepository) ListGroupsForPrincipal(ctx context.Context, principalKey string) ([]*models.GroupChat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.last_message, g.last_message_at, g.created_at
		FROM group_chats g
		JOIN group_chat_members m ON m.group_id = g.id
		WHERE m.member_key = $1
		ORDER BY g.last_message_at DESC NULLS LAST, g.created_at DESC`, principalKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list group chats: %w", err)
	}
	defer rows.Close()

	var groups []*models.GroupChat
	for rows.Next() {
		group := &models.GroupChat{}
		err := rows.Scan(
			&group.ID, &group.Name, &group.Description, &group.CreatedBy,
			&group.LastMessage, &group.LastMessageAt, &group.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group chat row: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// AddGroupMember adds a member to a group, idempotent
func (r *ChatRepository) AddGroupMember(ctx context.Context, groupID int64, memberKey string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO group_chat_members (group_id, member_key)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, groupID, memberKey)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrGroupChatNotFound
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveGroupMember removes a member from a group
func (r *ChatRepository) RemoveGroupMember(ctx context.Context, groupID int64, memberKey string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM group_chat_members WHERE group_id = $1 AND member_key = $2`, groupID, memberKey)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotAParticipant
	}
	return nil
}

// IsGroupMember reports whether a principal belongs to a group
func (r *ChatRepository) IsGroupMember(ctx context.Context, groupID int64, memberKey string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM group_chat_members WHERE group_id = $1 AND member_key = $2
		)`, groupID, memberKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return exists, nil
}

// DeleteGroup removes a group chat, its members and messages
func (r *ChatRepository) DeleteGroup(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM chat_messages WHERE group_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete group messages: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM group_chat_members WHERE group_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete group members: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM group_chats WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete group chat: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrGroupChatNotFound
		}
		return nil
	})
}

// CreateMessage stores a message and refreshes the conversation's last
// message summary in one transaction.
func (r *ChatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO chat_messages (session_id, group_id, sender_key, sender_name, body, attachment_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			message.SessionID, message.GroupID, message.SenderKey,
			message.SenderName, message.Body, message.AttachmentURL,
		).Scan(&message.ID, &message.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		if message.SessionID != nil {
			_, err = tx.Exec(ctx, `
				UPDATE chat_sessions SET last_message = $1, last_message_at = $2 WHERE id = $3`,
				message.Body, message.CreatedAt, *message.SessionID)
		} else if message.GroupID != nil {
			_, err = tx.Exec(ctx, `
				UPDATE group_chats SET last_message = $1, last_message_at = $2 WHERE id = $3`,
				message.Body, message.CreatedAt, *message.GroupID)
		}
		if err != nil {
			return fmt.Errorf("failed to update last message: %w", err)
		}
		return nil
	})
}

// ListSessionMessages returns a page of direct messages, oldest first
func (r *ChatRepository) ListSessionMessages(ctx context.Context, sessionID int64, offset uint64, limit int) ([]*models.ChatMessage, int64, error) {
	return r.listMessages(ctx, `session_id`, sessionID, offset, limit)
}

// ListGroupMessages returns a page of group messages, oldest first
func (r *ChatRepository) ListGroupMessages(ctx context.Context, groupID int64, offset uint64, limit int) ([]*models.ChatMessage, int64, error) {
	return r.listMessages(ctx, `group_id`, groupID, offset, limit)
}

func (r *ChatRepository) listMessages(ctx context.Context, column string, id int64, offset uint64, limit int) ([]*models.ChatMessage, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE `+column+` = $1`, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, group_id, sender_key, sender_name, body, attachment_url, created_at
		FROM chat_messages
		WHERE `+column+` = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`, id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		message := &models.ChatMessage{}
		err := rows.Scan(
			&message.ID, &message.SessionID, &message.GroupID, &message.SenderKey,
			&message.SenderName, &message.Body, &message.AttachmentURL, &message.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, total, rows.Err()
}
