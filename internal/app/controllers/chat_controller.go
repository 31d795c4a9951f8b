package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/services"
	"github.com/crestview/chronicle/internal/middleware"
	"github.com/crestview/chronicle/internal/pkg/helpers"
	"github.com/crestview/chronicle/internal/pkg/realtime"
)

// ChatController handles direct sessions, group chats and the websocket
// endpoint that carries realtime events for both.
type ChatController struct {
	chatService *services.ChatService
	authService *services.AuthService
	hub         *realtime.Hub
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService, authService *services.AuthService, hub *realtime.Hub, logger zerolog.Logger) *ChatController {
	return &ChatController{
		chatService: chatService,
		authService: authService,
		hub:         hub,
		logger:      logger,
	}
}

// OpenSession finds or creates the direct session with a peer
// @Summary Open a direct chat session
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.OpenSessionRequest true "Peer identity"
// @Success 200 {object} dto.APIResponse{data=models.ChatSession}
// @Failure 400 {object} dto.ErrorResponse "Cannot open a session with yourself"
// @Router /chat/sessions [post]
func (c *ChatController) OpenSession(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.OpenSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	session, err := c.chatService.OpenSession(ctx, principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(session))
}

// UploadAttachment stores a message attachment and returns its URL
// @Summary Upload a chat attachment
// @Tags chat
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Attachment file"
// @Success 201 {object} dto.APIResponse
// @Router /chat/attachments [post]
func (c *ChatController) UploadAttachment(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	url, err := c.chatService.SaveAttachment(file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(gin.H{"url": url}))
}

// ListSessions returns the caller's direct sessions, most recent first
// @Summary List own chat sessions
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ChatSession}
// @Router /chat/sessions [get]
func (c *ChatController) ListSessions(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	sessions, err := c.chatService.ListSessions(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(sessions))
}

// GetSessionMessages returns a page of session history, oldest first
// @Summary List messages in a session
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /chat/sessions/{id}/messages [get]
func (c *ChatController) GetSessionMessages(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	messages, total, err := c.chatService.GetSessionMessages(ctx, principal, id, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      messages,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// SendSessionMessage stores a message and relays it to connected participants
// @Summary Send a message in a session
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.SendMessageRequest true "Message body"
// @Success 201 {object} dto.APIResponse{data=models.ChatMessage}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /chat/sessions/{id}/messages [post]
func (c *ChatController) SendSessionMessage(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message, err := c.chatService.SendSessionMessage(ctx, principal, name, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(message))
}

// DeleteSession removes a session and its message history
// @Summary Delete a chat session
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse
// @Router /chat/sessions/{id} [delete]
func (c *ChatController) DeleteSession(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.chatService.DeleteSession(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Chat session deleted"))
}

// CreateGroup creates a group chat with the caller as first member
// @Summary Create a group chat
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGroupRequest true "Group name and description"
// @Success 201 {object} dto.APIResponse{data=models.GroupChat}
// @Router /chat/groups [post]
func (c *ChatController) CreateGroup(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	group, err := c.chatService.CreateGroup(ctx, principal, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(group))
}

// ListGroups returns groups the caller belongs to
// @Summary List own group chats
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.GroupChat}
// @Router /chat/groups [get]
func (c *ChatController) ListGroups(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	groups, err := c.chatService.ListGroups(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(groups))
}

// GetGroup returns one group with its member list
// @Summary Get a group chat
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse{data=models.GroupChat}
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /chat/groups/{id} [get]
func (c *ChatController) GetGroup(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	group, err := c.chatService.GetGroup(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(group))
}

// JoinGroup adds the caller to a group
// @Summary Join a group chat
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse
// @Router /chat/groups/{id}/join [post]
func (c *ChatController) JoinGroup(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.chatService.JoinGroup(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Joined group"))
}

// LeaveGroup removes the caller from a group
// @Summary Leave a group chat
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse
// @Router /chat/groups/{id}/leave [post]
func (c *ChatController) LeaveGroup(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.chatService.LeaveGroup(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Left group"))
}

// DeleteGroup removes a group, its members and messages
// @Summary Delete a group chat
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Only the creator or staff may delete"
// @Router /chat/groups/{id} [delete]
func (c *ChatController) DeleteGroup(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.chatService.DeleteGroup(ctx, principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Group deleted"))
}

// GetGroupMessages returns a page of group history, oldest first
// @Summary List messages in a group
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /chat/groups/{id}/messages [get]
func (c *ChatController) GetGroupMessages(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	messages, total, err := c.chatService.GetGroupMessages(ctx, principal, id, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      messages,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// SendGroupMessage stores a message and relays it to connected members
// @Summary Send a message in a group
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Group ID"
// @Param request body dto.SendMessageRequest true "Message body"
// @Success 201 {object} dto.APIResponse{data=models.ChatMessage}
// @Router /chat/groups/{id}/messages [post]
func (c *ChatController) SendGroupMessage(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message, err := c.chatService.SendGroupMessage(ctx, principal, name, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(message))
}

// ServeWS upgrades the connection and attaches it to the realtime hub.
// Room membership is checked against the chat service on every join frame.
// @Summary Websocket endpoint for realtime chat events
// @Tags chat
// @Security BearerAuth
// @Router /chat/ws [get]
func (c *ChatController) ServeWS(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	name, err := c.authService.DisplayName(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	realtime.ServeWS(ctx, c.hub, c.chatService, principal.Key(), name)
}
