package models

import "time"

// Subject defines the subject model based on the 'subjects' table.
// (course_id, code) is unique and semester must not exceed the parent
// course's total semester count.
type Subject struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	CourseID  int64     `json:"courseId" db:"course_id" example:"1"`
	Code      string    `json:"code" db:"code" example:"CS101"`
	Name      string    `json:"name" db:"name" example:"Introduction to Programming"`
	Semester  int       `json:"semester" db:"semester" example:"1"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Course    *Course   `json:"course,omitempty"` // Relation, no db tag
}
