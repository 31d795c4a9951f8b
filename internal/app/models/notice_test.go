package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoticeVisibleAt(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name   string
		notice Notice
		want   bool
	}{
		{"draft never visible", Notice{Status: NoticeDraft}, false},
		{"published without window", Notice{Status: NoticePublished}, true},
		{"inside window", Notice{Status: NoticePublished, PublishStart: &before, PublishEnd: &after}, true},
		{"before window opens", Notice{Status: NoticePublished, PublishStart: &after}, false},
		{"after window closes", Notice{Status: NoticePublished, PublishEnd: &before}, false},
		{"open-ended start", Notice{Status: NoticePublished, PublishEnd: &after}, true},
		{"open-ended end", Notice{Status: NoticePublished, PublishStart: &before}, true},
		{"boundary is inclusive", Notice{Status: NoticePublished, PublishStart: &now, PublishEnd: &now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.notice.VisibleAt(now))
		})
	}
}

func TestNoticeTypeValid(t *testing.T) {
	assert.True(t, NoticeNews.Valid())
	assert.True(t, NoticeEvents.Valid())
	assert.True(t, NoticeMeetings.Valid())
	assert.False(t, NoticeType("gossip").Valid())
}
