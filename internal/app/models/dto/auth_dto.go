package dto

// StudentRegisterRequest represents a student self-registration
type StudentRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	RollNo   string `json:"rollNo" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	CourseID *int64 `json:"courseId,omitempty"`
	Semester *int   `json:"semester,omitempty"`
	About    string `json:"about,omitempty"`
}

// StudentLoginRequest represents student login credentials
type StudentLoginRequest struct {
	RollNo   string `json:"rollNo" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StaffLoginRequest represents staff/admin login credentials
type StaffLoginRequest struct {
	LoginID  string `json:"loginId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ForgotPasswordRequest starts the password reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=STUDENT STAFF ADMIN"`
}

// ResetPasswordRequest finishes the password reset flow
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateProfileRequest represents whitelisted profile fields
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	About string `json:"about,omitempty"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int    `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int    `json:"refreshTokenExpiresIn,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse `json:"token"`
	Profile interface{}   `json:"profile"`
}
