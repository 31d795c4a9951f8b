package models

import "time"

// Discussion defines the discussion model based on the 'discussions' table.
// ReplyCount and LikesCount are denormalized and maintained by the same
// statements that mutate the underlying rows.
type Discussion struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	Title         string    `json:"title" db:"title"`
	Body          string    `json:"body" db:"body"`
	AuthorKey     string    `json:"authorKey" db:"author_key"` // principal key, e.g. "student:7"
	AuthorName    string    `json:"authorName" db:"author_name"`
	AttachmentURL *string   `json:"attachmentUrl,omitempty" db:"attachment_url"`
	LikesCount    int       `json:"likesCount" db:"likes_count"`
	ReplyCount    int       `json:"replyCount" db:"reply_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// DiscussionReply defines one reply. ParentReplyID forms a tree; replies whose
// parent is missing surface as roots when the thread is assembled.
type DiscussionReply struct {
	ID            int64              `json:"id" db:"id"`
	DiscussionID  int64              `json:"discussionId" db:"discussion_id"`
	ParentReplyID *int64             `json:"parentReplyId,omitempty" db:"parent_reply_id"`
	AuthorKey     string             `json:"authorKey" db:"author_key"`
	AuthorName    string             `json:"authorName" db:"author_name"`
	Body          string             `json:"body" db:"body"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
	Children      []*DiscussionReply `json:"children,omitempty"` // assembled, no db tag
}
