package services

import (
	"context"
	"fmt"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/auth"
)

// UserService handles admin-side account management for both tables
type UserService struct {
	userRepo    *repositories.UserRepository
	studentRepo *repositories.StudentRepository
	tokenRepo   *repositories.TokenRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	tokenRepo *repositories.TokenRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		tokenRepo:   tokenRepo,
	}
}

// CreateStaff creates a staff or admin account
func (s *UserService) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		LoginID:  req.LoginID,
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
		UserType: models.RoleType(req.UserType),
		Status:   models.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListStaff returns a page of staff accounts
func (s *UserService) ListStaff(ctx context.Context, userType *models.RoleType, search string, offset uint64, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, userType, search, offset, limit)
}

// ListStudents returns a page of student accounts
func (s *UserService) ListStudents(ctx context.Context, courseID *int64, semester *int, search string, offset uint64, limit int) ([]*models.Student, int64, error) {
	return s.studentRepo.List(ctx, courseID, semester, search, offset, limit)
}

// GetStudent returns one student with course details
func (s *UserService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.FindByIDWithCourse(ctx, id)
}

// SetStudentStatus activates or deactivates a student account. Deactivation
// also revokes outstanding refresh tokens.
func (s *UserService) SetStudentStatus(ctx context.Context, id int64, req *dto.UpdateAccountStatusRequest) error {
	status := models.AccountStatus(req.Status)
	if err := s.studentRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if status == models.StatusInactive {
		return s.tokenRepo.RevokeAllForAccount(ctx, models.RoleStudent, id)
	}
	return nil
}

// SetUserStatus activates or deactivates a staff account
func (s *UserService) SetUserStatus(ctx context.Context, actor models.Principal, id int64, req *dto.UpdateAccountStatusRequest) error {
	if actor.ID == id {
		return apperrors.NewBadRequestError("cannot change your own account status")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	status := models.AccountStatus(req.Status)
	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if status == models.StatusInactive {
		return s.tokenRepo.RevokeAllForAccount(ctx, user.UserType, id)
	}
	return nil
}

// DeleteStudent removes a student account
func (s *UserService) DeleteStudent(ctx context.Context, id int64) error {
	return s.studentRepo.Delete(ctx, id)
}

// DeleteUser removes a staff account, refusing to delete the last admin
func (s *UserService) DeleteUser(ctx context.Context, actor models.Principal, id int64) error {
	if actor.ID == id {
		return apperrors.NewBadRequestError("cannot delete your own account")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.UserType == models.RoleAdmin {
		admins, err := s.userRepo.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.NewConflictError("cannot delete the last admin account")
		}
	}
	return s.userRepo.Delete(ctx, id)
}
