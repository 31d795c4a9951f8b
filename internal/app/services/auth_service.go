package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/auth"
	"github.com/crestview/chronicle/internal/pkg/email"
	"github.com/crestview/chronicle/internal/pkg/filestorage"
	"github.com/crestview/chronicle/internal/pkg/logger"
)

// Reset links stay valid for an hour; tokens are single-use regardless
const passwordResetTokenTTL = time.Hour

// AuthService handles registration, login and the token lifecycle for both
// account tables.
type AuthService struct {
	studentRepo  *repositories.StudentRepository
	userRepo     *repositories.UserRepository
	tokenRepo    *repositories.TokenRepository
	resetRepo    *repositories.PasswordResetTokenRepository
	courseRepo   *repositories.CourseRepository
	jwtService   *auth.JWTService
	emailService *email.EmailService
	storage      *filestorage.LocalStorage
	resetBaseURL string
}

// NewAuthService creates a new auth service
func NewAuthService(
	studentRepo *repositories.StudentRepository,
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	resetRepo *repositories.PasswordResetTokenRepository,
	courseRepo *repositories.CourseRepository,
	jwtService *auth.JWTService,
	emailService *email.EmailService,
	storage *filestorage.LocalStorage,
	resetBaseURL string,
) *AuthService {
	return &AuthService{
		studentRepo:  studentRepo,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		resetRepo:    resetRepo,
		courseRepo:   courseRepo,
		jwtService:   jwtService,
		emailService: emailService,
		storage:      storage,
		resetBaseURL: resetBaseURL,
	}
}

// RegisterStudent creates a student account and logs it in
func (s *AuthService) RegisterStudent(ctx context.Context, req *dto.StudentRegisterRequest) (*dto.AuthResponse, error) {
	if req.CourseID != nil {
		course, err := s.courseRepo.FindByID(ctx, *req.CourseID)
		if err != nil {
			return nil, err
		}
		if req.Semester != nil && (*req.Semester < 1 || *req.Semester > course.TotalSemesters) {
			return nil, apperrors.ErrSemesterOutOfRange
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		RollNo:   req.RollNo,
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
		CourseID: req.CourseID,
		Semester: req.Semester,
		Status:   models.StatusActive,
	}
	if req.About != "" {
		student.About = &req.About
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	logger.Info().Int64("studentId", student.ID).Str("rollNo", student.RollNo).Msg("Student registered")
	return s.issueTokens(ctx, models.RoleStudent, student.ID, student)
}

// StudentLogin authenticates a student by roll number
func (s *AuthService) StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	student, err := s.studentRepo.FindByRollNo(ctx, req.RollNo)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(student.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if student.Status != models.StatusActive {
		return nil, apperrors.ErrAccountInactive
	}

	return s.issueTokens(ctx, models.RoleStudent, student.ID, student)
}

// StaffLogin authenticates a staff or admin account by login id. The role in
// the issued token comes from the stored user_type.
func (s *AuthService) StaffLogin(ctx context.Context, req *dto.StaffLoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status != models.StatusActive {
		return nil, apperrors.ErrAccountInactive
	}

	return s.issueTokens(ctx, user.UserType, user.ID, user)
}

func (s *AuthService) issueTokens(ctx context.Context, role models.RoleType, accountID int64, profile interface{}) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(accountID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.Store(ctx, refreshToken, role, accountID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		Profile: profile,
	}, nil
}

// RefreshToken rotates a refresh token and returns a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.Find(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// Rotate: the old token is single use
	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	accessToken, newRefresh, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(stored.AccountID, stored.AccountType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.Store(ctx, newRefresh, stored.AccountType, stored.AccountID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          newRefresh,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.Revoke(ctx, refreshToken)
	if errors.Is(err, apperrors.ErrTokenNotFound) {
		// Logging out with an unknown token is not an error worth surfacing
		return nil
	}
	return err
}

// ForgotPassword starts a reset flow. Always succeeds from the caller's view
// so the endpoint does not leak which emails exist.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	role := models.RoleType(req.Role)

	var accountID int64
	var name string
	if role == models.RoleStudent {
		student, err := s.studentRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			logger.Debug().Str("email", req.Email).Msg("Password reset requested for unknown student email")
			return nil
		}
		accountID, name = student.ID, student.Name
	} else {
		user, err := s.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			logger.Debug().Str("email", req.Email).Msg("Password reset requested for unknown staff email")
			return nil
		}
		accountID, name = user.ID, user.Name
	}

	token := uuid.New().String()
	if err := s.resetRepo.Store(ctx, token, role, accountID, time.Now().Add(passwordResetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.resetBaseURL, token)
	go func() {
		if err := s.emailService.SendPasswordResetEmail(req.Email, name, resetURL, passwordResetTokenTTL); err != nil {
			logger.Error().Err(err).Str("email", req.Email).Msg("Failed to send password reset email")
		}
	}()

	return nil
}

// ResetPassword consumes a reset token and sets a new password, revoking all
// outstanding refresh tokens for the account.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	stored, err := s.resetRepo.Find(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if stored.AccountType == models.RoleStudent {
		err = s.studentRepo.UpdatePassword(ctx, stored.AccountID, hash)
	} else {
		err = s.userRepo.UpdatePassword(ctx, stored.AccountID, hash)
	}
	if err != nil {
		return err
	}

	if err := s.resetRepo.MarkUsed(ctx, req.Token); err != nil {
		return err
	}
	return s.tokenRepo.RevokeAllForAccount(ctx, stored.AccountType, stored.AccountID)
}

// GetProfile loads the profile behind a token's claims
func (s *AuthService) GetProfile(ctx context.Context, principal models.Principal) (interface{}, error) {
	if principal.Role == models.RoleStudent {
		return s.studentRepo.FindByIDWithCourse(ctx, principal.ID)
	}
	return s.userRepo.FindByID(ctx, principal.ID)
}

// DisplayName resolves the caller's name for denormalized author fields
func (s *AuthService) DisplayName(ctx context.Context, principal models.Principal) (string, error) {
	if principal.Role == models.RoleStudent {
		student, err := s.studentRepo.FindByID(ctx, principal.ID)
		if err != nil {
			return "", err
		}
		return student.Name, nil
	}
	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, principal models.Principal, req *dto.UpdateProfileRequest) (interface{}, error) {
	if principal.Role == models.RoleStudent {
		student, err := s.studentRepo.FindByID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		student.Name = req.Name
		if req.About != "" {
			student.About = &req.About
		}
		if err := s.studentRepo.UpdateProfile(ctx, student); err != nil {
			return nil, err
		}
		return student, nil
	}

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	user.Name = req.Name
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar stores a new avatar image and records its URL on the account
func (s *AuthService) UpdateAvatar(ctx context.Context, principal models.Principal, file *multipart.FileHeader) (string, error) {
	url, err := s.storage.SaveFileWithPath(file, "avatars")
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if principal.Role == models.RoleStudent {
		student, err := s.studentRepo.FindByID(ctx, principal.ID)
		if err != nil {
			return "", err
		}
		if student.AvatarURL != nil {
			_ = s.storage.DeleteFile(*student.AvatarURL)
		}
		student.AvatarURL = &url
		if err := s.studentRepo.UpdateProfile(ctx, student); err != nil {
			return "", err
		}
		return url, nil
	}

	user, err := s.userRepo.FindByID(ctx, principal.ID)
	if err != nil {
		return "", err
	}
	if user.AvatarURL != nil {
		_ = s.storage.DeleteFile(*user.AvatarURL)
	}
	user.AvatarURL = &url
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return "", err
	}
	return url, nil
}
