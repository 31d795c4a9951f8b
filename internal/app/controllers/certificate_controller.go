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

// CertificateController handles certificate types, issuance and rendering
type CertificateController struct {
	certificateService *services.CertificateService
	logger             zerolog.Logger
}

// NewCertificateController creates a new CertificateController
func NewCertificateController(certificateService *services.CertificateService, logger zerolog.Logger) *CertificateController {
	return &CertificateController{
		certificateService: certificateService,
		logger:             logger,
	}
}

// CreateType creates a certificate type
// @Summary Create a certificate type
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCertificateTypeRequest true "Type name and description"
// @Success 201 {object} dto.APIResponse{data=models.CertificateType}
// @Failure 409 {object} dto.ErrorResponse "Type name already exists"
// @Router /admin/certificate-types [post]
func (c *CertificateController) CreateType(ctx *gin.Context) {
	var req dto.CreateCertificateTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	certType, err := c.certificateService.CreateType(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(certType))
}

// ListTypes returns every certificate type
// @Summary List certificate types
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.CertificateType}
// @Router /certificate-types [get]
func (c *CertificateController) ListTypes(ctx *gin.Context) {
	types, err := c.certificateService.ListTypes(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(types))
}

// DeleteType removes an unused certificate type
// @Summary Delete a certificate type
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Type ID"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Type is referenced by certificates"
// @Router /admin/certificate-types/{id} [delete]
func (c *CertificateController) DeleteType(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.certificateService.DeleteType(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Certificate type deleted"))
}

// Issue issues a certificate to a student
// @Summary Issue a certificate
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.IssueCertificateRequest true "Student, type and optional issue date"
// @Success 201 {object} dto.APIResponse{data=models.Certificate}
// @Router /admin/certificates [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	var req dto.IssueCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	certificate, err := c.certificateService.Issue(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("serialNo", certificate.SerialNo).Int64("studentId", req.StudentID).Msg("Certificate issued")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(certificate))
}

// List returns a page of all certificates
// @Summary List certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /admin/certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	certificates, total, err := c.certificateService.List(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      certificates,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// ListMine returns the calling student's certificates
// @Summary List own certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Certificate}
// @Router /certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)

	certificates, err := c.certificateService.ListForStudent(ctx, principal.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(certificates))
}

// Get returns one certificate. Students may only read their own.
// @Summary Get a certificate
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate ID"
// @Success 200 {object} dto.APIResponse{data=models.Certificate}
// @Failure 403 {object} dto.ErrorResponse "Certificate belongs to another student"
// @Router /certificates/{id} [get]
func (c *CertificateController) Get(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	certificate, err := c.certificateService.GetCertificate(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(certificate))
}

// Render returns a printable HTML rendition of an issued certificate
// @Summary Download a certificate document
// @Tags certificates
// @Produce html
// @Security BearerAuth
// @Param id path int true "Certificate ID"
// @Success 200 {string} string "HTML document"
// @Failure 400 {object} dto.ErrorResponse "Certificate is revoked"
// @Router /certificates/{id}/download [get]
func (c *CertificateController) Render(ctx *gin.Context) {
	principal, _ := middleware.GetPrincipal(ctx)
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	document, err := c.certificateService.Render(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", document)
}

// UpdateStatus revokes or restores a certificate
// @Summary Update certificate status
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate ID"
// @Param request body dto.UpdateCertificateRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Certificate}
// @Router /admin/certificates/{id} [put]
func (c *CertificateController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	certificate, err := c.certificateService.UpdateStatus(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(certificate))
}

// Delete removes a certificate record
// @Summary Delete a certificate
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Certificate ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/certificates/{id} [delete]
func (c *CertificateController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.certificateService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Certificate deleted"))
}

// ListForStudent returns one student's certificates, for staff
// @Summary List a student's certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Certificate}
// @Router /admin/students/{id}/certificates [get]
func (c *CertificateController) ListForStudent(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	certificates, err := c.certificateService.ListForStudent(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(certificates))
}
