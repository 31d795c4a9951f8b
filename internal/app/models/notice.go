package models

import "time"

// NoticeType categorizes notices
type NoticeType string

const (
	NoticeNews     NoticeType = "news"
	NoticeEvents   NoticeType = "events"
	NoticeMeetings NoticeType = "meetings"
)

// Valid reports whether the notice type is known
func (t NoticeType) Valid() bool {
	switch t {
	case NoticeNews, NoticeEvents, NoticeMeetings:
		return true
	}
	return false
}

// NoticeStatus is the publication state of a notice
type NoticeStatus string

const (
	NoticeDraft     NoticeStatus = "draft"
	NoticePublished NoticeStatus = "published"
)

// Notice defines the notice model based on the 'notices' table
type Notice struct {
	ID           int64        `json:"id" db:"id" example:"1"`
	Title        string       `json:"title" db:"title" example:"Midterm schedule"`
	Description  string       `json:"description" db:"description"`
	Type         NoticeType   `json:"type" db:"type" example:"news"`
	Status       NoticeStatus `json:"status" db:"status" example:"published"`
	CoverURL     *string      `json:"coverUrl,omitempty" db:"cover_url"`
	PublishStart *time.Time   `json:"publishStart,omitempty" db:"publish_start"`
	PublishEnd   *time.Time   `json:"publishEnd,omitempty" db:"publish_end"`
	CreatedBy    int64        `json:"createdBy" db:"created_by"` // users.id of the author
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// VisibleAt reports whether the notice is publicly visible at the given
// instant: published and inside the [publish_start, publish_end] window.
// A nil boundary leaves that side of the window open.
func (n *Notice) VisibleAt(now time.Time) bool {
	if n.Status != NoticePublished {
		return false
	}
	if n.PublishStart != nil && now.Before(*n.PublishStart) {
		return false
	}
	if n.PublishEnd != nil && now.After(*n.PublishEnd) {
		return false
	}
	return true
}
