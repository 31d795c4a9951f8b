package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountInactive    = errors.New("account is inactive")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrRollNoAlreadyExists = errors.New("roll number already exists")
	ErrEmailAlreadyExists  = errors.New("email already exists")
)

// Staff errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrLoginIDAlreadyExists = errors.New("login id already exists")
)

// Catalog errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseAlreadyExists  = errors.New("course with this code or name already exists")
	ErrCourseHasRelations   = errors.New("course has subjects or enrolled students and cannot be deleted")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrSubjectAlreadyExists = errors.New("subject with this code already exists for the course")
	ErrSemesterOutOfRange   = errors.New("semester exceeds the course semester count")
)

// Notice errors
var (
	ErrNoticeNotFound = errors.New("notice not found")
)

// Material errors
var (
	ErrMaterialNotFound = errors.New("study material not found")
)

// Quiz errors
var (
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizNotPublished     = errors.New("quiz is not published")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAttemptNotFound      = errors.New("quiz attempt not found")
	ErrAttemptExpired       = errors.New("quiz attempt has expired")
	ErrAttemptAlreadyClosed = errors.New("quiz attempt already submitted")
)

// Discussion errors
var (
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrReplyNotFound      = errors.New("reply not found")
)

// Chat errors
var (
	ErrChatSessionNotFound = errors.New("chat session not found")
	ErrGroupChatNotFound   = errors.New("group chat not found")
	ErrNotAParticipant     = errors.New("not a participant of this conversation")
)

// Timeline errors
var (
	ErrPostNotFound    = errors.New("timeline post not found")
	ErrCommentNotFound = errors.New("timeline comment not found")
)

// Certificate errors
var (
	ErrCertificateNotFound         = errors.New("certificate not found")
	ErrCertificateTypeNotFound     = errors.New("certificate type not found")
	ErrCertificateTypeExists       = errors.New("certificate type with this name already exists")
	ErrCertificateTypeHasRelations = errors.New("certificate type is referenced by certificates and cannot be deleted")
)

// Password reset errors
var (
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrPasswordResetTokenUsed    = errors.New("password reset token has already been used")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
