package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/logger"
)

// errorMapping pairs a sentinel error with its HTTP status and error code
type errorMapping struct {
	status int
	code   dto.ErrorCode
}

var errorMappings = map[error]errorMapping{
	// Authentication
	apperrors.ErrInvalidCredentials: {http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	apperrors.ErrTokenInvalid:       {http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	apperrors.ErrTokenExpired:       {http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	apperrors.ErrTokenRevoked:       {http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
	apperrors.ErrTokenNotFound:      {http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
	apperrors.ErrAccountInactive:    {http.StatusUnauthorized, dto.ErrorCodeAccountInactive},

	// Authorization
	apperrors.ErrPermissionDenied: {http.StatusForbidden, dto.ErrorCodeForbidden},
	apperrors.ErrNotAParticipant:  {http.StatusForbidden, dto.ErrorCodeForbidden},

	// Not found
	apperrors.ErrResourceNotFound:        {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrStudentNotFound:         {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrUserNotFound:            {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrCourseNotFound:          {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrSubjectNotFound:         {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrNoticeNotFound:          {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrMaterialNotFound:        {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrQuizNotFound:            {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrQuestionNotFound:        {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrAttemptNotFound:         {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrDiscussionNotFound:      {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrReplyNotFound:           {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrChatSessionNotFound:     {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrGroupChatNotFound:       {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrPostNotFound:            {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrCommentNotFound:         {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrCertificateNotFound:     {http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	apperrors.ErrCertificateTypeNotFound: {http.StatusNotFound, dto.ErrorCodeResourceNotFound},

	// Conflicts
	apperrors.ErrResourceAlreadyExists:       {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrConflict:                    {http.StatusConflict, dto.ErrorCodeConflict},
	apperrors.ErrRollNoAlreadyExists:         {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrEmailAlreadyExists:          {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrLoginIDAlreadyExists:        {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrCourseAlreadyExists:         {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrSubjectAlreadyExists:        {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrCertificateTypeExists:       {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	apperrors.ErrCourseHasRelations:          {http.StatusConflict, dto.ErrorCodeConflict},
	apperrors.ErrCertificateTypeHasRelations: {http.StatusConflict, dto.ErrorCodeConflict},

	// Bad requests
	apperrors.ErrValidationFailed:          {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	apperrors.ErrBadRequest:                {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	apperrors.ErrSemesterOutOfRange:        {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	apperrors.ErrQuizNotPublished:          {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	apperrors.ErrAttemptExpired:            {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	apperrors.ErrAttemptAlreadyClosed:      {http.StatusConflict, dto.ErrorCodeConflict},
	apperrors.ErrInvalidPasswordResetToken: {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	apperrors.ErrPasswordResetTokenUsed:    {http.StatusBadRequest, dto.ErrorCodeValidationFailed},
}

// HandleAPIError maps an application error onto the standard JSON envelope
// and aborts the request.
func HandleAPIError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	for sentinel, mapping := range errorMappings {
		if errors.Is(err, sentinel) {
			detail := dto.NewErrorDetail(mapping.code, err.Error())

			var custom *apperrors.CustomError
			if errors.As(err, &custom) && custom.Details != nil {
				detail = detail.WithDetails(custom.Details)
			}

			c.AbortWithStatusJSON(mapping.status, dto.NewErrorResponse(detail))
			return
		}
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "An unexpected error occurred")))
}

// HandleValidationError maps request binding failures onto the envelope
func HandleValidationError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()).
		WithSeverity(dto.ErrorSeverityWarning)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
