package services

import (
	"context"
	"mime/multipart"
	"sort"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
)

// DiscussionService manages discussion threads, nested replies and likes
type DiscussionService struct {
	discussionRepo *repositories.DiscussionRepository
	storage        *filestorage.LocalStorage
}

// NewDiscussionService creates a new discussion service
func NewDiscussionService(discussionRepo *repositories.DiscussionRepository, storage *filestorage.LocalStorage) *DiscussionService {
	return &DiscussionService{discussionRepo: discussionRepo, storage: storage}
}

// SaveAttachment stores a thread attachment and returns its URL
func (s *DiscussionService) SaveAttachment(file *multipart.FileHeader) (string, error) {
	return s.storage.SaveFileWithPath(file, "discussions")
}

// CreateDiscussion opens a new thread
func (s *DiscussionService) CreateDiscussion(ctx context.Context, req *dto.CreateDiscussionRequest, author models.Principal, authorName string) (*models.Discussion, error) {
	discussion := &models.Discussion{
		Title:         req.Title,
		Body:          req.Body,
		AuthorKey:     author.Key(),
		AuthorName:    authorName,
		AttachmentURL: req.AttachmentURL,
	}
	if err := s.discussionRepo.Create(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

// GetDiscussion loads a thread with its replies assembled into a tree
func (s *DiscussionService) GetDiscussion(ctx context.Context, id int64) (*models.Discussion, []*models.DiscussionReply, error) {
	discussion, err := s.discussionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	replies, err := s.discussionRepo.ListReplies(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return discussion, BuildReplyTree(replies), nil
}

// ListDiscussions returns a page of threads
func (s *DiscussionService) ListDiscussions(ctx context.Context, search string, offset uint64, limit int) ([]*models.Discussion, int64, error) {
	return s.discussionRepo.List(ctx, search, offset, limit)
}

// DeleteDiscussion removes a thread. Only the author or staff may delete.
func (s *DiscussionService) DeleteDiscussion(ctx context.Context, id int64, caller models.Principal) error {
	discussion, err := s.discussionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if discussion.AuthorKey != caller.Key() && caller.Role == models.RoleStudent {
		return apperrors.ErrPermissionDenied
	}
	return s.discussionRepo.Delete(ctx, id)
}

// ToggleLike likes a thread the caller has not liked yet, and unlikes one
// they have. Returns the resulting state.
func (s *DiscussionService) ToggleLike(ctx context.Context, id int64, caller models.Principal) (*dto.LikeResponse, error) {
	if _, err := s.discussionRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key := caller.Key()
	liked, err := s.discussionRepo.HasLiked(ctx, id, key)
	if err != nil {
		return nil, err
	}

	if liked {
		if _, err := s.discussionRepo.RemoveLike(ctx, id, key); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.discussionRepo.AddLike(ctx, id, key); err != nil {
			return nil, err
		}
	}

	discussion, err := s.discussionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: !liked, LikesCount: int(discussion.LikesCount)}, nil
}

// CreateReply adds a reply to a thread, optionally nested under another reply
func (s *DiscussionService) CreateReply(ctx context.Context, discussionID int64, req *dto.CreateReplyRequest, author models.Principal, authorName string) (*models.DiscussionReply, error) {
	if _, err := s.discussionRepo.FindByID(ctx, discussionID); err != nil {
		return nil, err
	}
	if req.ParentReplyID != nil {
		if _, err := s.discussionRepo.FindReplyByID(ctx, discussionID, *req.ParentReplyID); err != nil {
			return nil, err
		}
	}

	reply := &models.DiscussionReply{
		DiscussionID:  discussionID,
		ParentReplyID: req.ParentReplyID,
		AuthorKey:     author.Key(),
		AuthorName:    authorName,
		Body:          req.Body,
	}
	if err := s.discussionRepo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteReply removes a reply subtree. Only the author or staff may delete.
func (s *DiscussionService) DeleteReply(ctx context.Context, discussionID, replyID int64, caller models.Principal) error {
	reply, err := s.discussionRepo.FindReplyByID(ctx, discussionID, replyID)
	if err != nil {
		return err
	}
	if reply.AuthorKey != caller.Key() && caller.Role == models.RoleStudent {
		return apperrors.ErrPermissionDenied
	}
	return s.discussionRepo.DeleteReply(ctx, discussionID, replyID)
}

// BuildReplyTree arranges a flat reply list into nested threads. Replies
// whose parent is missing are promoted to roots so a deleted ancestor never
// hides them. Sibling order is chronological.
func BuildReplyTree(replies []*models.DiscussionReply) []*models.DiscussionReply {
	byID := make(map[int64]*models.DiscussionReply, len(replies))
	for _, reply := range replies {
		reply.Children = nil
		byID[reply.ID] = reply
	}

	var roots []*models.DiscussionReply
	for _, reply := range replies {
		if reply.ParentReplyID == nil {
			roots = append(roots, reply)
			continue
		}
		parent, ok := byID[*reply.ParentReplyID]
		if !ok {
			roots = append(roots, reply)
			continue
		}
		parent.Children = append(parent.Children, reply)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].CreatedAt.Before(roots[j].CreatedAt)
	})
	return roots
}
