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

// MaterialController handles study material operations
type MaterialController struct {
	materialService *services.MaterialService
	logger          zerolog.Logger
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService *services.MaterialService, logger zerolog.Logger) *MaterialController {
	return &MaterialController{
		materialService: materialService,
		logger:          logger,
	}
}

// Create uploads a study material with one or more attachments
// @Summary Create a study material
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Material title"
// @Param description formData string false "Material description"
// @Param courseId formData int false "Course ID"
// @Param subjectId formData int false "Subject ID"
// @Param files formData file true "Attachment files"
// @Success 201 {object} dto.APIResponse{data=models.StudyMaterial}
// @Failure 400 {object} dto.ErrorResponse "Missing attachments or bad catalog references"
// @Router /staff/materials [post]
func (c *MaterialController) Create(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	var req dto.CreateMaterialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	material, err := c.materialService.CreateMaterial(ctx, &req, form.File["files"], principal.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("materialId", material.ID).Msg("Study material created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(material))
}

// List returns a filtered page of materials
// @Summary List study materials
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Course filter"
// @Param subjectId query int false "Subject filter"
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /materials [get]
func (c *MaterialController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	materials, total, err := c.materialService.ListMaterials(ctx,
		optionalInt64Query(ctx, "courseId"),
		optionalInt64Query(ctx, "subjectId"),
		ctx.Query("search"),
		offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      materials,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// Get returns one material with its attachments
// @Summary Get a study material
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse{data=models.StudyMaterial}
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Router /materials/{id} [get]
func (c *MaterialController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	material, err := c.materialService.GetMaterial(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(material))
}

// RecordDownload bumps the download counter and returns the material
// @Summary Record a material download
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse{data=models.StudyMaterial}
// @Router /materials/{id}/download [post]
func (c *MaterialController) RecordDownload(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	material, err := c.materialService.RecordDownload(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(material))
}

// Update updates material metadata
// @Summary Update a study material
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Material fields"
// @Success 200 {object} dto.APIResponse{data=models.StudyMaterial}
// @Router /staff/materials/{id} [put]
func (c *MaterialController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	material, err := c.materialService.UpdateMaterial(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(material))
}

// Delete removes a material, its attachments and their files
// @Summary Delete a study material
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse
// @Router /staff/materials/{id} [delete]
func (c *MaterialController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.materialService.DeleteMaterial(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Study material deleted"))
}
