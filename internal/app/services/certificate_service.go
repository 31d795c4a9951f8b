package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crestview/chronicle/internal/app/models"
	"github.com/crestview/chronicle/internal/app/models/dto"
	"github.com/crestview/chronicle/internal/app/repositories"
	"github.com/crestview/chronicle/internal/pkg/apperrors"
	"github.com/crestview/chronicle/internal/pkg/email"
	"github.com/crestview/chronicle/internal/pkg/logger"
)

var certificateTemplate = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Certificate {{.SerialNo}}</title>
  <style>
    body { font-family: Georgia, serif; background: #f5f1e8; margin: 0; padding: 40px; }
    .frame { border: 6px double #8a6d3b; background: #fffdf7; max-width: 720px; margin: 0 auto; padding: 56px; text-align: center; }
    h1 { letter-spacing: 4px; color: #8a6d3b; text-transform: uppercase; font-size: 28px; }
    .name { font-size: 32px; margin: 24px 0; }
    .serial { margin-top: 40px; color: #777; font-size: 13px; }
  </style>
</head>
<body>
  <div class="frame">
    <h1>{{.TypeName}}</h1>
    <p>This certifies that</p>
    <div class="name">{{.StudentName}}</div>
    <p>has been awarded this certificate by Crestview College.</p>
    <p>Issued on {{.IssueDate.Format "2 January 2006"}}</p>
    <div class="serial">Serial no. {{.SerialNo}}</div>
  </div>
</body>
</html>`))

// CertificateService manages certificate types, issuance and rendering
type CertificateService struct {
	certRepo     *repositories.CertificateRepository
	studentRepo  *repositories.StudentRepository
	emailService *email.EmailService
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certRepo *repositories.CertificateRepository,
	studentRepo *repositories.StudentRepository,
	emailService *email.EmailService,
) *CertificateService {
	return &CertificateService{
		certRepo:     certRepo,
		studentRepo:  studentRepo,
		emailService: emailService,
	}
}

// CreateType adds a new certificate type
func (s *CertificateService) CreateType(ctx context.Context, req *dto.CreateCertificateTypeRequest) (*models.CertificateType, error) {
	ct := &models.CertificateType{Name: req.Name, Description: req.Description}
	if err := s.certRepo.CreateType(ctx, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// ListTypes returns all certificate types
func (s *CertificateService) ListTypes(ctx context.Context) ([]*models.CertificateType, error) {
	return s.certRepo.ListTypes(ctx)
}

// DeleteType removes an unused certificate type
func (s *CertificateService) DeleteType(ctx context.Context, id int64) error {
	return s.certRepo.DeleteType(ctx, id)
}

// NewSerialNo builds a unique, human-readable certificate serial
func NewSerialNo(issueDate time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("CHR-%d-%s", issueDate.Year(), suffix)
}

// Issue issues a certificate of a type to a student and notifies them by email
func (s *CertificateService) Issue(ctx context.Context, req *dto.IssueCertificateRequest) (*models.Certificate, error) {
	student, err := s.studentRepo.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.certRepo.FindTypeByID(ctx, req.TypeID); err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	cert := &models.Certificate{
		StudentID: req.StudentID,
		TypeID:    req.TypeID,
		SerialNo:  NewSerialNo(issueDate),
		IssueDate: issueDate,
		Status:    models.CertificateIssued,
	}
	if err := s.certRepo.Issue(ctx, cert); err != nil {
		return nil, err
	}

	issued, err := s.certRepo.FindByID(ctx, cert.ID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailService.SendCertificateIssuedEmail(student.Email, student.Name, issued.TypeName, issued.SerialNo); err != nil {
			logger.Error().Err(err).Int64("certificateId", issued.ID).Msg("Failed to send certificate email")
		}
	}()

	return issued, nil
}

// GetCertificate returns a certificate. Students may only read their own.
func (s *CertificateService) GetCertificate(ctx context.Context, caller models.Principal, id int64) (*models.Certificate, error) {
	cert, err := s.certRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleStudent && cert.StudentID != caller.ID {
		return nil, apperrors.ErrPermissionDenied
	}
	return cert, nil
}

// ListForStudent returns the certificates issued to one student
func (s *CertificateService) ListForStudent(ctx context.Context, studentID int64) ([]*models.Certificate, error) {
	return s.certRepo.ListByStudent(ctx, studentID)
}

// List returns a page of all certificates for admin review
func (s *CertificateService) List(ctx context.Context, offset uint64, limit int) ([]*models.Certificate, int64, error) {
	return s.certRepo.List(ctx, offset, limit)
}

// UpdateStatus moves a certificate between issued and revoked
func (s *CertificateService) UpdateStatus(ctx context.Context, id int64, req *dto.UpdateCertificateRequest) (*models.Certificate, error) {
	if err := s.certRepo.UpdateStatus(ctx, id, models.CertificateStatus(req.Status)); err != nil {
		return nil, err
	}
	return s.certRepo.FindByID(ctx, id)
}

// Delete removes a certificate record
func (s *CertificateService) Delete(ctx context.Context, id int64) error {
	return s.certRepo.Delete(ctx, id)
}

// Render produces the printable HTML document for a certificate. Revoked
// certificates cannot be rendered.
func (s *CertificateService) Render(ctx context.Context, caller models.Principal, id int64) ([]byte, error) {
	cert, err := s.GetCertificate(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if cert.Status != models.CertificateIssued {
		return nil, apperrors.ErrCertificateNotFound
	}

	var buf bytes.Buffer
	if err := certificateTemplate.Execute(&buf, cert); err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
