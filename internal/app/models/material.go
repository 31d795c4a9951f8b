package models

import "time"

// StudyMaterial defines the study material model based on the
// 'study_materials' table
type StudyMaterial struct {
	ID            int64                 `json:"id" db:"id" example:"1"`
	Title         string                `json:"title" db:"title" example:"Week 3 lecture slides"`
	Description   string                `json:"description" db:"description"`
	CourseID      *int64                `json:"courseId,omitempty" db:"course_id"`
	SubjectID     *int64                `json:"subjectId,omitempty" db:"subject_id"`
	DownloadCount int64                 `json:"downloadCount" db:"download_count"`
	CreatedBy     int64                 `json:"createdBy" db:"created_by"` // users.id of the uploader
	CreatedAt     time.Time             `json:"createdAt" db:"created_at"`
	Attachments   []*MaterialAttachment `json:"attachments,omitempty"` // Relation, no db tag
}

// MaterialAttachment defines one uploaded file attached to a study material
type MaterialAttachment struct {
	ID         int64     `json:"id" db:"id"`
	MaterialID int64     `json:"materialId" db:"material_id"`
	FileName   string    `json:"fileName" db:"file_name"`
	FileURL    string    `json:"fileUrl" db:"file_url"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
