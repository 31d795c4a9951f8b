package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
)

func runHandleAPIError(t *testing.T, err error) (*httptest.ResponseRecorder, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/student/login", nil)

	HandleAPIError(ctx, err)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, &resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"inactive account", apperrors.ErrAccountInactive, http.StatusUnauthorized, dto.ErrorCodeAccountInactive},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"non-participant", apperrors.ErrNotAParticipant, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"missing resource", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate roll number", apperrors.ErrRollNoAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"course with dependents", apperrors.ErrCourseHasRelations, http.StatusConflict, dto.ErrorCodeConflict},
		{"semester out of range", apperrors.ErrSemesterOutOfRange, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := runHandleAPIError(t, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorMatchesWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("student login: %w", apperrors.ErrAccountInactive)

	rec, resp := runHandleAPIError(t, wrapped)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeAccountInactive, resp.Error.Code)
}

func TestHandleAPIErrorUnknownErrorIsInternal(t *testing.T) {
	rec, resp := runHandleAPIError(t, errors.New("pool exhausted"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, dto.ErrorCodeInternalServer, resp.Error.Code)
	// Internals never leak into the envelope
	assert.NotContains(t, resp.Error.Message, "pool exhausted")
}
