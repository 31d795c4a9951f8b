package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/services"
	"github.com/crestview/chronicle/internal/middleware"
	"github.com/crestview/chronicle/internal/pkg/helpers"
)

// DiscussionController handles forum thread and reply operations
type DiscussionController struct {
	discussionService *services.DiscussionService
	authService       *services.AuthService
	logger            zerolog.Logger
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService *services.DiscussionService, authService *services.AuthService, logger zerolog.Logger) *DiscussionController {
	return &DiscussionController{
		discussionService: discussionService,
		authService:       authService,
		logger:            logger,
	}
}

// Create starts a discussion thread
// @Summary Create a discussion
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDiscussionRequest true "Thread title and body"
// @Success 201 {object} dto.APIResponse{data=models.Discussion}
// @Router /discussions [post]
func (c *DiscussionController) Create(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.CreateDiscussionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	discussion, err := c.discussionService.CreateDiscussion(ctx, &req, principal, name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(discussion))
}

// UploadAttachment stores a thread attachment and returns its URL
// @Summary Upload a discussion attachment
// @Tags discussions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Attachment file"
// @Success 201 {object} dto.APIResponse
// @Router /discussions/attachments [post]
func (c *DiscussionController) UploadAttachment(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	url, err := c.discussionService.SaveAttachment(file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(gin.H{"url": url}))
}

// List returns a page of discussions, newest first
// @Summary List discussions
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /discussions [get]
func (c *DiscussionController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	discussions, total, err := c.discussionService.ListDiscussions(ctx, ctx.Query("search"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      discussions,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Get returns a discussion with its nested reply tree
// @Summary Get a discussion
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discussion ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Discussion not found"
// @Router /discussions/{id} [get]
func (c *DiscussionController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	discussion, replies, err := c.discussionService.GetDiscussion(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"discussion": discussion,
		"replies":    replies,
	}))
}

// Delete removes a thread. Authors and staff only.
// @Summary Delete a discussion
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discussion ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Router /discussions/{id} [delete]
func (c *DiscussionController) Delete(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.discussionService.DeleteDiscussion(ctx, id, principal); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Discussion deleted"))
}

// ToggleLike likes or unlikes a discussion for the caller
// @Summary Toggle a discussion like
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discussion ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse}
// @Router /discussions/{id}/like [post]
func (c *DiscussionController) ToggleLike(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.discussionService.ToggleLike(ctx, id, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// CreateReply adds a reply, optionally nested under a parent reply
// @Summary Reply to a discussion
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discussion ID"
// @Param request body dto.CreateReplyRequest true "Reply body and optional parent"
// @Success 201 {object} dto.APIResponse{data=models.DiscussionReply}
// @Router /discussions/{id}/replies [post]
func (c *DiscussionController) CreateReply(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reply, err := c.discussionService.CreateReply(ctx, id, &req, principal, name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(reply))
}

// DeleteReply removes a reply and its nested subtree
// @Summary Delete a reply
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Discussion ID"
// @Param replyId path int true "Reply ID"
// @Success 200 {object} dto.APIResponse
// @Router /discussions/{id}/replies/{replyId} [delete]
func (c *DiscussionController) DeleteReply(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	replyID, ok := parseIDParam(ctx, "replyId")
	if !ok {
		return
	}

	if err := c.discussionService.DeleteReply(ctx, id, replyID, principal); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Reply deleted"))
}
