package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
)

// NoticeService manages the campus notice board
type NoticeService struct {
	noticeRepo *repositories.NoticeRepository
	storage    *filestorage.LocalStorage
}

// NewNoticeService creates a new notice service
func NewNoticeService(noticeRepo *repositories.NoticeRepository, storage *filestorage.LocalStorage) *NoticeService {
	return &NoticeService{noticeRepo: noticeRepo, storage: storage}
}

// CreateNotice creates a notice, defaulting to draft status
func (s *NoticeService) CreateNotice(ctx context.Context, req *dto.CreateNoticeRequest, createdBy int64) (*models.Notice, error) {
	if req.PublishStart != nil && req.PublishEnd != nil && req.PublishEnd.Before(*req.PublishStart) {
		return nil, apperrors.NewBadRequestError("publish window ends before it starts")
	}

	status := models.NoticeDraft
	if req.Status != "" {
		status = models.NoticeStatus(req.Status)
	}

	notice := &models.Notice{
		Title:        req.Title,
		Description:  req.Description,
		Type:         models.NoticeType(req.Type),
		Status:       status,
		PublishStart: req.PublishStart,
		PublishEnd:   req.PublishEnd,
		CreatedBy:    createdBy,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// GetNotice returns a notice for staff, regardless of visibility
func (s *NoticeService) GetNotice(ctx context.Context, id int64) (*models.Notice, error) {
	return s.noticeRepo.FindByID(ctx, id)
}

// GetVisibleNotice returns a notice only when it is currently visible to the
// public feed.
func (s *NoticeService) GetVisibleNotice(ctx context.Context, id int64) (*models.Notice, error) {
	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !notice.VisibleAt(time.Now()) {
		return nil, apperrors.ErrNoticeNotFound
	}
	return notice, nil
}

// ListVisibleNotices returns the published notices currently inside their
// publish window.
func (s *NoticeService) ListVisibleNotices(ctx context.Context, noticeType *models.NoticeType, offset uint64, limit int) ([]*models.Notice, int64, error) {
	return s.noticeRepo.ListVisible(ctx, noticeType, time.Now(), offset, limit)
}

const (
	defaultLatestNotices = 5
	maxLatestNotices     = 20
)

// LatestNotices returns the newest visible notices, clamped to [1, 20]
func (s *NoticeService) LatestNotices(ctx context.Context, limit int) ([]*models.Notice, error) {
	if limit <= 0 {
		limit = defaultLatestNotices
	}
	if limit > maxLatestNotices {
		limit = maxLatestNotices
	}
	notices, _, err := s.noticeRepo.ListVisible(ctx, nil, time.Now(), 0, limit)
	return notices, err
}

// ListAllNotices returns every notice for staff management
func (s *NoticeService) ListAllNotices(ctx context.Context, noticeType *models.NoticeType, status *models.NoticeStatus, offset uint64, limit int) ([]*models.Notice, int64, error) {
	return s.noticeRepo.ListAll(ctx, noticeType, status, offset, limit)
}

// UpdateNotice modifies an existing notice
func (s *NoticeService) UpdateNotice(ctx context.Context, id int64, req *dto.UpdateNoticeRequest) (*models.Notice, error) {
	if req.PublishStart != nil && req.PublishEnd != nil && req.PublishEnd.Before(*req.PublishStart) {
		return nil, apperrors.NewBadRequestError("publish window ends before it starts")
	}

	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	notice.Title = req.Title
	notice.Description = req.Description
	notice.Type = models.NoticeType(req.Type)
	notice.Status = models.NoticeStatus(req.Status)
	notice.PublishStart = req.PublishStart
	notice.PublishEnd = req.PublishEnd
	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// UpdateCover stores a new cover image for a notice
func (s *NoticeService) UpdateCover(ctx context.Context, id int64, file *multipart.FileHeader) (*models.Notice, error) {
	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(file, "notices")
	if err != nil {
		return nil, err
	}

	if notice.CoverURL != nil {
		_ = s.storage.DeleteFile(*notice.CoverURL)
	}
	notice.CoverURL = &url
	if err := s.noticeRepo.Update(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// DeleteNotice removes a notice and its cover image
func (s *NoticeService) DeleteNotice(ctx context.Context, id int64) error {
	notice, err := s.noticeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.noticeRepo.Delete(ctx, id); err != nil {
		return err
	}
	if notice.CoverURL != nil {
		_ = s.storage.DeleteFile(*notice.CoverURL)
	}
	return nil
}
