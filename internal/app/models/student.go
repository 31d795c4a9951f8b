package models

import (
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64         `json:"id" db:"id" example:"1"`
	RollNo    string        `json:"rollNo" db:"roll_no" example:"CS2021-042"`
	Email     string        `json:"email" db:"email" example:"jane@crestview.edu"`
	Name      string        `json:"name" db:"name" example:"Jane Doe"`
	Password  string        `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	CourseID  *int64        `json:"courseId,omitempty" db:"course_id"`
	Semester  *int          `json:"semester,omitempty" db:"semester"`
	About     *string       `json:"about,omitempty" db:"about"`
	AvatarURL *string       `json:"avatarUrl,omitempty" db:"avatar_url"`
	Status    AccountStatus `json:"status" db:"status" example:"Active"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
	Course    *Course       `json:"course,omitempty"` // Relation, no db tag
}

// Principal returns the auth principal for the student account
func (s *Student) Principal() Principal {
	return Principal{Role: RoleStudent, ID: s.ID}
}
