package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/services"
	"github.com/crestview/chronicle/internal/middleware"
	"github.com/crestview/chronicle/internal/pkg/helpers"
)

// AdminController handles account management and analytics
type AdminController struct {
	userService      *services.UserService
	analyticsService *services.AnalyticsService
	logger           zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(userService *services.UserService, analyticsService *services.AnalyticsService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		userService:      userService,
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// CreateStaff creates a staff or admin account
// @Summary Create a staff account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStaffRequest true "Account data"
// @Success 201 {object} dto.APIResponse{data=models.User}
// @Failure 409 {object} dto.ErrorResponse "Login id or email already exists"
// @Router /admin/users [post]
func (c *AdminController) CreateStaff(ctx *gin.Context) {
	var req dto.CreateStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.CreateStaff(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("loginId", user.LoginID).Str("userType", string(user.UserType)).Msg("Staff account created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(user))
}

// ListStaff returns a page of staff accounts
// @Summary List staff accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userType query string false "Role filter" Enums(STAFF, ADMIN)
// @Param search query string false "Name or login search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/users [get]
func (c *AdminController) ListStaff(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var userType *models.RoleType
	switch raw := ctx.Query("userType"); raw {
	case string(models.RoleStaff), string(models.RoleAdmin):
		role := models.RoleType(raw)
		userType = &role
	}

	users, total, err := c.userService.ListStaff(ctx, userType, ctx.Query("search"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      users,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// ListStudents returns a filtered page of student accounts
// @Summary List student accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course filter"
// @Param semester query int false "Semester filter"
// @Param search query string false "Name or roll number search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := c.userService.ListStudents(ctx,
		optionalInt64Query(ctx, "courseId"),
		optionalIntQuery(ctx, "semester"),
		ctx.Query("search"),
		offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// GetStudent returns one student with course details
// @Summary Get a student account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /admin/students/{id} [get]
func (c *AdminController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.userService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// SetStudentStatus activates or deactivates a student account
// @Summary Update a student account status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse
// @Router /admin/students/{id}/status [put]
func (c *AdminController) SetStudentStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccountStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	if err := c.userService.SetStudentStatus(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student status updated"))
}

// SetUserStatus activates or deactivates a staff account
// @Summary Update a staff account status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Cannot change own status"
// @Router /admin/users/{id}/status [put]
func (c *AdminController) SetUserStatus(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAccountStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	if err := c.userService.SetUserStatus(ctx, principal, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User status updated"))
}

// DeleteStudent removes a student account
// @Summary Delete a student account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/students/{id} [delete]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student deleted"))
}

// DeleteUser removes a staff account
// @Summary Delete a staff account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Cannot delete the last admin"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User deleted"))
}

// Overview returns per-collection counts
// @Summary Analytics overview
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OverviewResponse}
// @Router /admin/analytics/overview [get]
func (c *AdminController) Overview(ctx *gin.Context) {
	overview, err := c.analyticsService.Overview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(overview))
}

// RegistrationsPerDay returns daily registration counts for the trailing window
// @Summary Registration trend
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trailing window in days (default 7, max 90)"
// @Success 200 {object} dto.APIResponse{data=[]dto.DayBucket}
// @Router /admin/analytics/registrations [get]
func (c *AdminController) RegistrationsPerDay(ctx *gin.Context) {
	days := 0
	if raw := optionalIntQuery(ctx, "days"); raw != nil {
		days = *raw
	}

	buckets, err := c.analyticsService.RegistrationsPerDay(ctx, days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(buckets))
}

// StudentsPerCourse returns enrollment counts grouped by course
// @Summary Enrollment by course
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupBucket}
// @Router /admin/analytics/students-per-course [get]
func (c *AdminController) StudentsPerCourse(ctx *gin.Context) {
	buckets, err := c.analyticsService.StudentsPerCourse(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(buckets))
}

// StudentsPerSemester returns enrollment counts grouped by semester
// @Summary Enrollment by semester
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupBucket}
// @Router /admin/analytics/students-per-semester [get]
func (c *AdminController) StudentsPerSemester(ctx *gin.Context) {
	buckets, err := c.analyticsService.StudentsPerSemester(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(buckets))
}

// NoticesByType returns notice counts grouped by type
// @Summary Notices by type
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupBucket}
// @Router /admin/analytics/notices-by-type [get]
func (c *AdminController) NoticesByType(ctx *gin.Context) {
	buckets, err := c.analyticsService.NoticesByType(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(buckets))
}

// QuizAverages returns the average score percentage per published quiz
// @Summary Quiz score averages
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupBucket}
// @Router /admin/analytics/quiz-averages [get]
func (c *AdminController) QuizAverages(ctx *gin.Context) {
	buckets, err := c.analyticsService.QuizAverages(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(buckets))
}

// TopMaterialDownloads returns the most downloaded study materials
// @Summary Top material downloads
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.GroupBucket}
// @Router /admin/analytics/material-downloads [get]
func (c *AdminController) TopMaterialDownloads(ctx *gin.Context) {
	buckets, err := c.analyticsService.TopMaterialDownloads(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(buckets))
}
