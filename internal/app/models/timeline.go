package models

import "time"

// PostVisibility controls which audience may see a timeline post
type PostVisibility string

const (
	VisibilityPublic   PostVisibility = "public"
	VisibilityCampus   PostVisibility = "campus"
	VisibilityStudents PostVisibility = "students"
	VisibilityStaff    PostVisibility = "staff"
	VisibilityPrivate  PostVisibility = "private"
)

// Valid reports whether the visibility is a known variant
func (v PostVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityCampus, VisibilityStudents, VisibilityStaff, VisibilityPrivate:
		return true
	}
	return false
}

// TimelinePost defines the timeline post model. LikesCount and CommentsCount
// are denormalized counters kept consistent with the like/comment rows.
type TimelinePost struct {
	ID            int64          `json:"id" db:"id"`
	AuthorKey     string         `json:"authorKey" db:"author_key"`
	AuthorName    string         `json:"authorName" db:"author_name"`
	Body          string         `json:"body" db:"body"`
	Visibility    PostVisibility `json:"visibility" db:"visibility" example:"campus"`
	AttachmentURL *string        `json:"attachmentUrl,omitempty" db:"attachment_url"`
	LikesCount    int            `json:"likesCount" db:"likes_count"`
	CommentsCount int            `json:"commentsCount" db:"comments_count"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	LikedByCaller bool           `json:"likedByCaller,omitempty"` // computed, no db tag
}

// TimelineComment defines one comment on a timeline post
type TimelineComment struct {
	ID         int64     `json:"id" db:"id"`
	PostID     int64     `json:"postId" db:"post_id"`
	AuthorKey  string    `json:"authorKey" db:"author_key"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
