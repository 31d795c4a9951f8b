package models

import "time"

// Course defines the course model based on the 'courses' table
type Course struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	Code           string    `json:"code" db:"code" example:"CS"`
	Name           string    `json:"name" db:"name" example:"Computer Science"`
	TotalSemesters int       `json:"totalSemesters" db:"total_semesters" example:"8"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
