package services

import (
	"context"
	"mime/multipart"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
	"github.com/crestview/chronicle/internal/pkg/logger"
)

// MaterialService manages study materials and their file attachments
type MaterialService struct {
	materialRepo *repositories.MaterialRepository
	courseRepo   *repositories.CourseRepository
	subjectRepo  *repositories.SubjectRepository
	storage      *filestorage.LocalStorage
}

// NewMaterialService creates a new material service
func NewMaterialService(
	materialRepo *repositories.MaterialRepository,
	courseRepo *repositories.CourseRepository,
	subjectRepo *repositories.SubjectRepository,
	storage *filestorage.LocalStorage,
) *MaterialService {
	return &MaterialService{
		materialRepo: materialRepo,
		courseRepo:   courseRepo,
		subjectRepo:  subjectRepo,
		storage:      storage,
	}
}

// CreateMaterial stores the uploaded files and creates the material record.
// Files already written are cleaned up when the database insert fails.
func (s *MaterialService) CreateMaterial(ctx context.Context, req *dto.CreateMaterialRequest, files []*multipart.FileHeader, createdBy int64) (*models.StudyMaterial, error) {
	if len(files) == 0 {
		return nil, apperrors.NewBadRequestError("at least one file is required")
	}

	if err := s.validateCatalogRefs(ctx, req.CourseID, req.SubjectID); err != nil {
		return nil, err
	}

	material := &models.StudyMaterial{
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		SubjectID:   req.SubjectID,
		CreatedBy:   createdBy,
	}

	var storedURLs []string
	for _, file := range files {
		url, err := s.storage.SaveFileWithPath(file, "materials")
		if err != nil {
			s.cleanupFiles(storedURLs)
			return nil, err
		}
		storedURLs = append(storedURLs, url)
		material.Attachments = append(material.Attachments, &models.MaterialAttachment{
			FileName: file.Filename,
			FileURL:  url,
			FileSize: file.Size,
		})
	}

	if err := s.materialRepo.Create(ctx, material); err != nil {
		s.cleanupFiles(storedURLs)
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) validateCatalogRefs(ctx context.Context, courseID, subjectID *int64) error {
	if courseID != nil {
		if _, err := s.courseRepo.FindByID(ctx, *courseID); err != nil {
			return err
		}
	}
	if subjectID != nil {
		subject, err := s.subjectRepo.FindByID(ctx, *subjectID)
		if err != nil {
			return err
		}
		if courseID != nil && subject.CourseID != *courseID {
			return apperrors.NewBadRequestError("subject does not belong to the given course")
		}
	}
	return nil
}

func (s *MaterialService) cleanupFiles(urls []string) {
	for _, url := range urls {
		if err := s.storage.DeleteFile(url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("Failed to clean up stored file")
		}
	}
}

// GetMaterial returns a material with its attachments
func (s *MaterialService) GetMaterial(ctx context.Context, id int64) (*models.StudyMaterial, error) {
	return s.materialRepo.FindByID(ctx, id)
}

// ListMaterials returns a page of materials
func (s *MaterialService) ListMaterials(ctx context.Context, courseID, subjectID *int64, search string, offset uint64, limit int) ([]*models.StudyMaterial, int64, error) {
	return s.materialRepo.List(ctx, courseID, subjectID, search, offset, limit)
}

// UpdateMaterial modifies material metadata
func (s *MaterialService) UpdateMaterial(ctx context.Context, id int64, req *dto.UpdateMaterialRequest) (*models.StudyMaterial, error) {
	if err := s.validateCatalogRefs(ctx, req.CourseID, req.SubjectID); err != nil {
		return nil, err
	}

	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	material.Title = req.Title
	material.Description = req.Description
	material.CourseID = req.CourseID
	material.SubjectID = req.SubjectID
	if err := s.materialRepo.Update(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial removes a material and its stored files
func (s *MaterialService) DeleteMaterial(ctx context.Context, id int64) error {
	urls, err := s.materialRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cleanupFiles(urls)
	return nil
}

// RecordDownload bumps the download counter and returns the material so the
// caller can redirect to the file.
func (s *MaterialService) RecordDownload(ctx context.Context, id int64) (*models.StudyMaterial, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.materialRepo.IncrementDownloadCount(ctx, id); err != nil {
		return nil, err
	}
	material.DownloadCount++
	return material, nil
}
