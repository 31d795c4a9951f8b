// Package controllers handles HTTP request handling
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crestview/chronicle/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleValidationError(ctx, &invalidParamError{name: name})
		return 0, false
	}
	return id, true
}

type invalidParamError struct {
	name string
}

func (e *invalidParamError) Error() string {
	return "invalid " + e.name + " parameter"
}

// optionalInt64Query reads an optional positive int64 query parameter,
// returning nil when absent or malformed
func optionalInt64Query(ctx *gin.Context, name string) *int64 {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}

// optionalIntQuery reads an optional positive int query parameter
func optionalIntQuery(ctx *gin.Context, name string) *int {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}
