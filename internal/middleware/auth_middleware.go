package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextSubjectID = "subjectID"
	ContextRole      = "role"
)

// JWTAuth validates the bearer token and stores the caller's identity on the
// request context. Websocket upgrades may pass the token as a query
// parameter since browsers cannot set headers on the handshake.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil || tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authorization token is required")))
			return
		}

		claims, err := jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if err == auth.ErrExpiredToken {
				code = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.NewErrorDetail(code, "Invalid or expired token")))
			return
		}

		c.Set(ContextSubjectID, claims.SubjectID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleRequired rejects callers whose role is not in the allowed set
func RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	allowed := make(map[models.RoleType]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, "Insufficient permissions")))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated principal from the request context
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	subjectID, ok := c.Get(ContextSubjectID)
	if !ok {
		return models.Principal{}, false
	}
	role, ok := GetRole(c)
	if !ok {
		return models.Principal{}, false
	}

	id, ok := subjectID.(int64)
	if !ok {
		return models.Principal{}, false
	}
	return models.Principal{Role: role, ID: id}, true
}

// GetRole returns the authenticated caller's role from the request context
func GetRole(c *gin.Context) (models.RoleType, bool) {
	value, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := value.(models.RoleType)
	return role, ok
}
