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

// NoticeController handles notice board operations
type NoticeController struct {
	noticeService *services.NoticeService
	logger        zerolog.Logger
}

// NewNoticeController creates a new NoticeController
func NewNoticeController(noticeService *services.NoticeService, logger zerolog.Logger) *NoticeController {
	return &NoticeController{
		noticeService: noticeService,
		logger:        logger,
	}
}

func noticeTypeFilter(ctx *gin.Context) *models.NoticeType {
	switch raw := ctx.Query("type"); raw {
	case string(models.NoticeNews), string(models.NoticeEvents), string(models.NoticeMeetings):
		noticeType := models.NoticeType(raw)
		return &noticeType
	}
	return nil
}

// ListVisible returns the public notice feed
// @Summary List published notices within their publish window
// @Tags notices
// @Produce json
// @Param type query string false "Notice type filter" Enums(news, events, meetings)
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /notices [get]
func (c *NoticeController) ListVisible(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	notices, total, err := c.noticeService.ListVisibleNotices(ctx, noticeTypeFilter(ctx), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      notices,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// ListLatest returns the newest visible notices
// @Summary List the latest published notices
// @Tags notices
// @Produce json
// @Param limit query int false "Number of notices (default 5, max 20)"
// @Success 200 {object} dto.APIResponse{data=[]models.Notice}
// @Router /notices/latest [get]
func (c *NoticeController) ListLatest(ctx *gin.Context) {
	limit := 0
	if raw := optionalIntQuery(ctx, "limit"); raw != nil {
		limit = *raw
	}

	notices, err := c.noticeService.LatestNotices(ctx, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notices))
}

// GetVisible returns one published notice
// @Summary Get a visible notice
// @Tags notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse{data=models.Notice}
// @Failure 404 {object} dto.ErrorResponse "Notice not found or not visible"
// @Router /notices/{id} [get]
func (c *NoticeController) GetVisible(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	notice, err := c.noticeService.GetVisibleNotice(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notice))
}

// ListAll returns all notices including drafts, for staff
// @Summary List all notices
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Param type query string false "Notice type filter" Enums(news, events, meetings)
// @Param status query string false "Status filter" Enums(draft, published)
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /staff/notices [get]
func (c *NoticeController) ListAll(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var status *models.NoticeStatus
	switch raw := ctx.Query("status"); raw {
	case string(models.NoticeDraft), string(models.NoticePublished):
		noticeStatus := models.NoticeStatus(raw)
		status = &noticeStatus
	}

	notices, total, err := c.noticeService.ListAllNotices(ctx, noticeTypeFilter(ctx), status, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      notices,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Get returns one notice regardless of status, for staff
// @Summary Get a notice
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse{data=models.Notice}
// @Router /staff/notices/{id} [get]
func (c *NoticeController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	notice, err := c.noticeService.GetNotice(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notice))
}

// Create creates a notice, draft by default
// @Summary Create a notice
// @Tags notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNoticeRequest true "Notice data"
// @Success 201 {object} dto.APIResponse{data=models.Notice}
// @Router /staff/notices [post]
func (c *NoticeController) Create(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.CreateNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notice, err := c.noticeService.CreateNotice(ctx, &req, principal.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(notice))
}

// Update updates a notice
// @Summary Update a notice
// @Tags notices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Param request body dto.UpdateNoticeRequest true "Notice data"
// @Success 200 {object} dto.APIResponse{data=models.Notice}
// @Router /staff/notices/{id} [put]
func (c *NoticeController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateNoticeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notice, err := c.noticeService.UpdateNotice(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notice))
}

// UpdateCover replaces the notice cover image
// @Summary Upload a notice cover image
// @Tags notices
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Param cover formData file true "Cover image"
// @Success 200 {object} dto.APIResponse{data=models.Notice}
// @Router /staff/notices/{id}/cover [put]
func (c *NoticeController) UpdateCover(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("cover")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	notice, err := c.noticeService.UpdateCover(ctx, id, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(notice))
}

// Delete removes a notice and its cover file
// @Summary Delete a notice
// @Tags notices
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notice ID"
// @Success 200 {object} dto.APIResponse
// @Router /staff/notices/{id} [delete]
func (c *NoticeController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.noticeService.DeleteNotice(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notice deleted"))
}
