package models

import "time"

// ChatSession is a direct conversation between two principals. The pair is
// stored sorted (ParticipantLow < ParticipantHigh) so one unique index covers
// both initiation orders.
type ChatSession struct {
	ID              int64      `json:"id" db:"id"`
	ParticipantLow  string     `json:"participantLow" db:"participant_low"`
	ParticipantHigh string     `json:"participantHigh" db:"participant_high"`
	LastMessage     *string    `json:"lastMessage,omitempty" db:"last_message"`
	LastMessageAt   *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}

// HasParticipant reports whether the principal key belongs to the session
func (s *ChatSession) HasParticipant(key string) bool {
	return s.ParticipantLow == key || s.ParticipantHigh == key
}

// GroupChat is a named conversation with an open member list
type GroupChat struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   *string    `json:"description,omitempty" db:"description"`
	CreatedBy     string     `json:"createdBy" db:"created_by"` // principal key of the creator
	LastMessage   *string    `json:"lastMessage,omitempty" db:"last_message"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty" db:"last_message_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	MemberKeys    []string   `json:"memberKeys,omitempty"` // Relation, no db tag
}

// ChatMessage belongs to exactly one of a session or a group
type ChatMessage struct {
	ID            int64     `json:"id" db:"id"`
	SessionID     *int64    `json:"sessionId,omitempty" db:"session_id"`
	GroupID       *int64    `json:"groupId,omitempty" db:"group_id"`
	SenderKey     string    `json:"senderKey" db:"sender_key"`
	SenderName    string    `json:"senderName" db:"sender_name"`
	Body          string    `json:"body" db:"body"`
	AttachmentURL *string   `json:"attachmentUrl,omitempty" db:"attachment_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
