package services

import (
	"context"
	"mime/multipart"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
)

// TimelineService manages the campus timeline feed
type TimelineService struct {
	timelineRepo *repositories.TimelineRepository
	storage      *filestorage.LocalStorage
}

// NewTimelineService creates a new timeline service
func NewTimelineService(timelineRepo *repositories.TimelineRepository, storage *filestorage.LocalStorage) *TimelineService {
	return &TimelineService{timelineRepo: timelineRepo, storage: storage}
}

// VisibleScopes returns the post visibilities a role may see in the feed.
// Private posts only surface for their own author, which the repository
// handles separately.
func VisibleScopes(role models.RoleType) []models.PostVisibility {
	switch role {
	case models.RoleStudent:
		return []models.PostVisibility{models.VisibilityPublic, models.VisibilityCampus, models.VisibilityStudents}
	case models.RoleStaff, models.RoleAdmin:
		return []models.PostVisibility{models.VisibilityPublic, models.VisibilityCampus, models.VisibilityStaff}
	}
	return []models.PostVisibility{models.VisibilityPublic}
}

// PostVisibleTo reports whether a single post may be shown to the caller
func PostVisibleTo(post *models.TimelinePost, caller models.Principal) bool {
	if post.AuthorKey == caller.Key() {
		return true
	}
	for _, v := range VisibleScopes(caller.Role) {
		if post.Visibility == v {
			return true
		}
	}
	return false
}

// CreatePost publishes a post to the timeline, optionally with an attachment
func (s *TimelineService) CreatePost(ctx context.Context, caller models.Principal, callerName string, req *dto.CreatePostRequest, attachment *multipart.FileHeader) (*models.TimelinePost, error) {
	post := &models.TimelinePost{
		AuthorKey:  caller.Key(),
		AuthorName: callerName,
		Body:       req.Body,
		Visibility: models.PostVisibility(req.Visibility),
	}

	if attachment != nil {
		url, err := s.storage.SaveFileWithPath(attachment, "timeline")
		if err != nil {
			return nil, err
		}
		post.AttachmentURL = &url
	}

	if err := s.timelineRepo.CreatePost(ctx, post); err != nil {
		if post.AttachmentURL != nil {
			_ = s.storage.DeleteFile(*post.AttachmentURL)
		}
		return nil, err
	}
	return post, nil
}

// GetPost returns a post the caller is allowed to see
func (s *TimelineService) GetPost(ctx context.Context, caller models.Principal, id int64) (*models.TimelinePost, error) {
	post, err := s.timelineRepo.FindPostByID(ctx, id, caller.Key())
	if err != nil {
		return nil, err
	}
	if !PostVisibleTo(post, caller) {
		return nil, apperrors.ErrPostNotFound
	}
	return post, nil
}

// ListFeed returns the caller's feed page, filtered by role visibility
func (s *TimelineService) ListFeed(ctx context.Context, caller models.Principal, offset uint64, limit int) ([]*models.TimelinePost, int64, error) {
	return s.timelineRepo.ListPosts(ctx, VisibleScopes(caller.Role), caller.Key(), offset, limit)
}

// DeletePost removes a post. Only the author or staff may delete, and the
// attachment file goes with it.
func (s *TimelineService) DeletePost(ctx context.Context, caller models.Principal, id int64) error {
	post, err := s.timelineRepo.FindPostByID(ctx, id, caller.Key())
	if err != nil {
		return err
	}
	if post.AuthorKey != caller.Key() && caller.Role == models.RoleStudent {
		return apperrors.ErrPermissionDenied
	}

	if err := s.timelineRepo.DeletePost(ctx, id); err != nil {
		return err
	}
	if post.AttachmentURL != nil {
		_ = s.storage.DeleteFile(*post.AttachmentURL)
	}
	return nil
}

// ToggleLike likes or unlikes a post and returns the resulting state
func (s *TimelineService) ToggleLike(ctx context.Context, caller models.Principal, id int64) (*dto.LikeResponse, error) {
	post, err := s.GetPost(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	key := caller.Key()
	if post.LikedByCaller {
		if _, err := s.timelineRepo.RemoveLike(ctx, id, key); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.timelineRepo.AddLike(ctx, id, key); err != nil {
			return nil, err
		}
	}

	updated, err := s.timelineRepo.FindPostByID(ctx, id, key)
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: updated.LikedByCaller, LikesCount: int(updated.LikesCount)}, nil
}

// CreateComment adds a comment to a post the caller can see
func (s *TimelineService) CreateComment(ctx context.Context, caller models.Principal, callerName string, postID int64, req *dto.CreateCommentRequest) (*models.TimelineComment, error) {
	if _, err := s.GetPost(ctx, caller, postID); err != nil {
		return nil, err
	}

	comment := &models.TimelineComment{
		PostID:     postID,
		AuthorKey:  caller.Key(),
		AuthorName: callerName,
		Body:       req.Body,
	}
	if err := s.timelineRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments of a post the caller can see
func (s *TimelineService) ListComments(ctx context.Context, caller models.Principal, postID int64) ([]*models.TimelineComment, error) {
	if _, err := s.GetPost(ctx, caller, postID); err != nil {
		return nil, err
	}
	return s.timelineRepo.ListComments(ctx, postID)
}

// DeleteComment removes a comment. Only its author or staff may delete.
func (s *TimelineService) DeleteComment(ctx context.Context, caller models.Principal, postID, commentID int64) error {
	comment, err := s.timelineRepo.FindCommentByID(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorKey != caller.Key() && caller.Role == models.RoleStudent {
		return apperrors.ErrPermissionDenied
	}
	return s.timelineRepo.DeleteComment(ctx, postID, commentID)
}
