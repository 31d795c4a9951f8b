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

// TimelineController handles the campus activity feed
type TimelineController struct {
	timelineService *services.TimelineService
	authService     *services.AuthService
	logger          zerolog.Logger
}

// NewTimelineController creates a new TimelineController
func NewTimelineController(timelineService *services.TimelineService, authService *services.AuthService, logger zerolog.Logger) *TimelineController {
	return &TimelineController{
		timelineService: timelineService,
		authService:     authService,
		logger:          logger,
	}
}

// CreatePost publishes a post, optionally with one attachment
// @Summary Create a timeline post
// @Tags timeline
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param body formData string true "Post body"
// @Param visibility formData string true "Visibility" Enums(public, campus, students, staff, private)
// @Param attachment formData file false "Attachment"
// @Success 201 {object} dto.APIResponse{data=models.TimelinePost}
// @Router /timeline [post]
func (c *TimelineController) CreatePost(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.CreatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	// attachment is optional
	attachment, err := ctx.FormFile("attachment")
	if err != nil {
		attachment = nil
	}

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	post, err := c.timelineService.CreatePost(ctx, principal, name, &req, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(post))
}

// ListFeed returns the posts visible to the caller, newest first
// @Summary List the timeline feed
// @Tags timeline
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /timeline [get]
func (c *TimelineController) ListFeed(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	posts, total, err := c.timelineService.ListFeed(ctx, principal, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      posts,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// GetPost returns one post if the caller may see it
// @Summary Get a timeline post
// @Tags timeline
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=models.TimelinePost}
// @Failure 404 {object} dto.ErrorResponse "Post not found or not visible"
// @Router /timeline/{id} [get]
func (c *TimelineController) GetPost(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	post, err := c.timelineService.GetPost(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(post))
}

// DeletePost removes a post. Authors and staff only.
// @Summary Delete a timeline post
// @Tags timeline
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Router /timeline/{id} [delete]
func (c *TimelineController) DeletePost(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.timelineService.DeletePost(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted"))
}

// ToggleLike likes or unlikes a post for the caller
// @Summary Toggle a post like
// @Tags timeline
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.LikeResponse}
// @Router /timeline/{id}/like [post]
func (c *TimelineController) ToggleLike(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.timelineService.ToggleLike(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// CreateComment adds a comment to a visible post
// @Summary Comment on a post
// @Tags timeline
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment body"
// @Success 201 {object} dto.APIResponse{data=models.TimelineComment}
// @Router /timeline/{id}/comments [post]
func (c *TimelineController) CreateComment(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	comment, err := c.timelineService.CreateComment(ctx, principal, name, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(comment))
}

// ListComments returns a post's comments, oldest first
// @Summary List comments on a post
// @Tags timeline
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=[]models.TimelineComment}
// @Router /timeline/{id}/comments [get]
func (c *TimelineController) ListComments(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.timelineService.ListComments(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(comments))
}

// DeleteComment removes a comment. Authors and staff only.
// @Summary Delete a comment
// @Tags timeline
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.APIResponse
// @Router /timeline/{id}/comments/{commentId} [delete]
func (c *TimelineController) DeleteComment(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(ctx, "commentId")
	if !ok {
		return
	}

	if err := c.timelineService.DeleteComment(ctx, principal, id, commentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted"))
}
