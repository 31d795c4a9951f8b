package dto

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	TotalSemesters int    `json:"totalSemesters" binding:"required,min=1"`
}

// UpdateCourseRequest represents course update data
type UpdateCourseRequest struct {
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	TotalSemesters int    `json:"totalSemesters" binding:"required,min=1"`
}

// CreateSubjectRequest represents subject creation data
type CreateSubjectRequest struct {
	CourseID int64  `json:"courseId" binding:"required,min=1"`
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Semester int    `json:"semester" binding:"required,min=1"`
}

// UpdateSubjectRequest represents subject update data
type UpdateSubjectRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Semester int    `json:"semester" binding:"required,min=1"`
}
