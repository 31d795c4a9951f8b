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

// QuizController handles quiz authoring and attempt operations
type QuizController struct {
	quizService *services.QuizService
	logger      zerolog.Logger
}

// NewQuizController creates a new QuizController
func NewQuizController(quizService *services.QuizService, logger zerolog.Logger) *QuizController {
	return &QuizController{
		quizService: quizService,
		logger:      logger,
	}
}

// Create creates a draft quiz
// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuizRequest true "Quiz data"
// @Success 201 {object} dto.APIResponse{data=models.Quiz}
// @Router /staff/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	quiz, err := c.quizService.CreateQuiz(ctx, &req, principal.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(quiz))
}

// List returns a filtered page of quizzes. Students only see published ones.
// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course filter"
// @Param subjectId query int false "Subject filter"
// @Param status query string false "Status filter (staff only)" Enums(draft, published)
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	var status *models.QuizStatus
	switch raw := ctx.Query("status"); raw {
	case string(models.QuizDraft), string(models.QuizPublished):
		quizStatus := models.QuizStatus(raw)
		status = &quizStatus
	}

	quizzes, total, err := c.quizService.ListQuizzes(ctx, principal.Role,
		optionalInt64Query(ctx, "courseId"),
		optionalInt64Query(ctx, "subjectId"),
		status, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      quizzes,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Get returns one quiz. Staff see questions with answers; students only see
// published quizzes without questions.
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.APIResponse{data=models.Quiz}
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var quiz *models.Quiz
	var err error
	if principal.Role == models.RoleStudent {
		quiz, err = c.quizService.GetQuizForStudent(ctx, id)
	} else {
		quiz, err = c.quizService.GetQuizForStaff(ctx, id)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(quiz))
}

// Update updates quiz metadata and status
// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Quiz fields"
// @Success 200 {object} dto.APIResponse{data=models.Quiz}
// @Failure 400 {object} dto.ErrorResponse "Publishing a quiz without questions"
// @Router /staff/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	quiz, err := c.quizService.UpdateQuiz(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(quiz))
}

// Delete removes a quiz with its questions and attempts
// @Summary Delete a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.APIResponse
// @Router /staff/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.quizService.DeleteQuiz(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Quiz deleted"))
}

// AddQuestion appends a question to a draft quiz
// @Summary Add a question to a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body dto.CreateQuestionRequest true "Question with options"
// @Success 201 {object} dto.APIResponse{data=models.Question}
// @Failure 400 {object} dto.ErrorResponse "Quiz already published"
// @Router /staff/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	question, err := c.quizService.AddQuestion(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(question))
}

// DeleteQuestion removes a question from a draft quiz
// @Summary Delete a quiz question
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param questionId path int true "Question ID"
// @Success 200 {object} dto.APIResponse
// @Router /staff/quizzes/{id}/questions/{questionId} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(ctx, "questionId")
	if !ok {
		return
	}

	if err := c.quizService.DeleteQuestion(ctx, id, questionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Question deleted"))
}

// StartAttempt opens the caller's single attempt on a published quiz
// @Summary Start a quiz attempt
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 201 {object} dto.APIResponse{data=dto.AttemptStartResponse}
// @Failure 400 {object} dto.ErrorResponse "Quiz not published"
// @Failure 409 {object} dto.ErrorResponse "Quiz already attempted"
// @Router /quizzes/{id}/start [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attempt, err := c.quizService.StartAttempt(ctx, id, principal.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(attempt))
}

// SubmitAttempt grades and closes the caller's attempt
// @Summary Submit a quiz attempt
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param request body dto.SubmitAttemptRequest true "Answers"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptResultResponse}
// @Failure 400 {object} dto.ErrorResponse "Attempt expired"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /quizzes/{id}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	result, err := c.quizService.SubmitAttempt(ctx, id, principal.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

// GetAttemptResult returns the caller's graded attempt
// @Summary Get an attempt result
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param attemptId path int true "Attempt ID"
// @Success 200 {object} dto.APIResponse{data=models.QuizAttempt}
// @Router /attempts/{attemptId} [get]
func (c *QuizController) GetAttemptResult(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	attemptID, ok := parseIDParam(ctx, "attemptId")
	if !ok {
		return
	}

	attempt, err := c.quizService.GetAttemptResult(ctx, principal.ID, attemptID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempt))
}

// ListMyAttempts returns the caller's attempt history
// @Summary List own quiz attempts
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.QuizAttempt}
// @Router /attempts [get]
func (c *QuizController) ListMyAttempts(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	attempts, err := c.quizService.ListStudentAttempts(ctx, principal.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempts))
}

// ListQuizAttempts returns every attempt on a quiz ranked by score
// @Summary List attempts on a quiz
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.APIResponse{data=[]models.QuizAttempt}
// @Router /staff/quizzes/{id}/attempts [get]
func (c *QuizController) ListQuizAttempts(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.quizService.ListQuizAttempts(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(attempts))
}
