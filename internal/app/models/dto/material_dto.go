package dto

// CreateMaterialRequest represents study material creation data. Attachments
// arrive as multipart files alongside these form fields.
type CreateMaterialRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
	CourseID    *int64 `form:"courseId"`
	SubjectID   *int64 `form:"subjectId"`
}

// UpdateMaterialRequest represents whitelisted material update fields
type UpdateMaterialRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CourseID    *int64 `json:"courseId,omitempty"`
	SubjectID   *int64 `json:"subjectId,omitempty"`
}
