package services

import (
	"context"
	"time"

	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
)

const (
	defaultRegistrationDays = 7
	maxRegistrationDays     = 90
	topDownloadsLimit       = 10
)

// AnalyticsService computes the admin dashboard aggregates
type AnalyticsService struct {
	analyticsRepo *repositories.AnalyticsRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analyticsRepo *repositories.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// Overview returns the entity counts for the dashboard landing page
func (s *AnalyticsService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	return s.analyticsRepo.Overview(ctx)
}

// RegistrationsPerDay buckets student signups over a trailing window of days,
// clamped to [1, 90].
func (s *AnalyticsService) RegistrationsPerDay(ctx context.Context, days int) ([]dto.DayBucket, error) {
	if days <= 0 {
		days = defaultRegistrationDays
	}
	if days > maxRegistrationDays {
		days = maxRegistrationDays
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.analyticsRepo.RegistrationsPerDay(ctx, since)
}

// StudentsPerCourse groups enrollment by course
func (s *AnalyticsService) StudentsPerCourse(ctx context.Context) ([]dto.GroupBucket, error) {
	return s.analyticsRepo.StudentsPerCourse(ctx)
}

// StudentsPerSemester groups enrollment by semester
func (s *AnalyticsService) StudentsPerSemester(ctx context.Context) ([]dto.GroupBucket, error) {
	return s.analyticsRepo.StudentsPerSemester(ctx)
}

// NoticesByType groups notices by type
func (s *AnalyticsService) NoticesByType(ctx context.Context) ([]dto.GroupBucket, error) {
	return s.analyticsRepo.NoticesByType(ctx)
}

// QuizAverages returns average score percentage per published quiz
func (s *AnalyticsService) QuizAverages(ctx context.Context) ([]dto.GroupBucket, error) {
	return s.analyticsRepo.QuizAverages(ctx)
}

// TopMaterialDownloads returns the most downloaded study materials
func (s *AnalyticsService) TopMaterialDownloads(ctx context.Context) ([]dto.GroupBucket, error) {
	return s.analyticsRepo.MaterialDownloads(ctx, topDownloadsLimit)
}
