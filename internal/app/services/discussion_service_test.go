package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestview/chronicle/internal/app/models"
)

func reply(id int64, parent *int64, createdAt time.Time) *models.DiscussionReply {
	return &models.DiscussionReply{
		ID:            id,
		ParentReplyID: parent,
		CreatedAt:     createdAt,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestBuildReplyTreeNesting(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	replies := []*models.DiscussionReply{
		reply(1, nil, base),
		reply(2, int64Ptr(1), base.Add(time.Minute)),
		reply(3, int64Ptr(2), base.Add(2*time.Minute)),
		reply(4, nil, base.Add(3*time.Minute)),
	}

	roots := BuildReplyTree(replies)
	require.Len(t, roots, 2)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Equal(t, int64(4), roots[1].ID)

	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, int64(2), roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, int64(3), roots[0].Children[0].Children[0].ID)
	assert.Empty(t, roots[1].Children)
}

func TestBuildReplyTreeOrphansBecomeRoots(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	replies := []*models.DiscussionReply{
		reply(5, int64Ptr(999), base), // parent was deleted
		reply(6, nil, base.Add(time.Minute)),
	}

	roots := BuildReplyTree(replies)
	require.Len(t, roots, 2)
	assert.Equal(t, int64(5), roots[0].ID)
	assert.Equal(t, int64(6), roots[1].ID)
}

func TestBuildReplyTreeRootsChronological(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	replies := []*models.DiscussionReply{
		reply(3, nil, base.Add(2*time.Hour)),
		reply(1, nil, base),
		reply(2, nil, base.Add(time.Hour)),
	}

	roots := BuildReplyTree(replies)
	require.Len(t, roots, 3)
	assert.Equal(t, int64(1), roots[0].ID)
	assert.Equal(t, int64(2), roots[1].ID)
	assert.Equal(t, int64(3), roots[2].ID)
}

func TestBuildReplyTreeResetsStaleChildren(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	r1 := reply(1, nil, base)
	r1.Children = []*models.DiscussionReply{reply(99, nil, base)} // stale from a previous build
	replies := []*models.DiscussionReply{r1, reply(2, int64Ptr(1), base.Add(time.Minute))}

	roots := BuildReplyTree(replies)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, int64(2), roots[0].Children[0].ID)
}

func TestBuildReplyTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildReplyTree(nil))
}
