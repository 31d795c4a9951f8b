package services

import (
	"context"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
)

// SubjectService manages subjects within courses
type SubjectService struct {
	subjectRepo *repositories.SubjectRepository
	courseRepo  *repositories.CourseRepository
}

// NewSubjectService creates a new subject service
func NewSubjectService(subjectRepo *repositories.SubjectRepository, courseRepo *repositories.CourseRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo, courseRepo: courseRepo}
}

// CreateSubject adds a subject to a course. The semester must fit within the
// course's configured semester count.
func (s *SubjectService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if req.Semester > course.TotalSemesters {
		return nil, apperrors.ErrSemesterOutOfRange
	}

	subject := &models.Subject{
		CourseID: req.CourseID,
		Code:     req.Code,
		Name:     req.Name,
		Semester: req.Semester,
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}
	subject.Course = course
	return subject, nil
}

// GetSubject returns a subject with its course
func (s *SubjectService) GetSubject(ctx context.Context, id int64) (*models.Subject, error) {
	return s.subjectRepo.FindByID(ctx, id)
}

// ListSubjects returns the subjects of a course, optionally for one semester
func (s *SubjectService) ListSubjects(ctx context.Context, courseID int64, semester *int) ([]*models.Subject, error) {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.subjectRepo.ListByCourse(ctx, courseID, semester)
}

// UpdateSubject modifies an existing subject
func (s *SubjectService) UpdateSubject(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Semester > subject.Course.TotalSemesters {
		return nil, apperrors.ErrSemesterOutOfRange
	}

	subject.Code = req.Code
	subject.Name = req.Name
	subject.Semester = req.Semester
	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes a subject
func (s *SubjectService) DeleteSubject(ctx context.Context, id int64) error {
	return s.subjectRepo.Delete(ctx, id)
}
