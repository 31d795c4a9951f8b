package models

import "time"

// CertificateType defines a category of issuable certificates. A type cannot
// be deleted while certificates reference it.
type CertificateType struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Name        string    `json:"name" db:"name" example:"Course Completion"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CertificateStatus is the lifecycle state of a certificate
type CertificateStatus string

const (
	CertificateIssued  CertificateStatus = "issued"
	CertificateRevoked CertificateStatus = "revoked"
)

// Certificate links a student to a certificate type
type Certificate struct {
	ID          int64             `json:"id" db:"id"`
	StudentID   int64             `json:"studentId" db:"student_id"`
	TypeID      int64             `json:"typeId" db:"type_id"`
	SerialNo    string            `json:"serialNo" db:"serial_no"`
	IssueDate   time.Time         `json:"issueDate" db:"issue_date"`
	Status      CertificateStatus `json:"status" db:"status" example:"issued"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	StudentName string            `json:"studentName,omitempty"` // populated from students, no db tag
	TypeName    string            `json:"typeName,omitempty"`    // populated from certificate_types, no db tag
}
