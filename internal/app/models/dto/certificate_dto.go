package dto

import "time"

// CreateCertificateTypeRequest represents certificate type creation data
type CreateCertificateTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// IssueCertificateRequest issues a certificate of a type to a student
type IssueCertificateRequest struct {
	StudentID int64      `json:"studentId" binding:"required,min=1"`
	TypeID    int64      `json:"typeId" binding:"required,min=1"`
	IssueDate *time.Time `json:"issueDate,omitempty"`
}

// UpdateCertificateRequest represents whitelisted certificate update fields
type UpdateCertificateRequest struct {
	Status string `json:"status" binding:"required,oneof=issued revoked"`
}
