package models

import (
	"time"
)

// User defines a staff or admin account based on the 'users' table
type User struct {
	ID        int64         `json:"id" db:"id" example:"1"`
	LoginID   string        `json:"loginId" db:"login_id" example:"staff.jdoe"`
	Email     string        `json:"email" db:"email" example:"jdoe@crestview.edu"`
	Name      string        `json:"name" db:"name" example:"John Doe"`
	Password  string        `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	UserType  RoleType      `json:"userType" db:"user_type" example:"STAFF"`
	AvatarURL *string       `json:"avatarUrl,omitempty" db:"avatar_url"`
	Status    AccountStatus `json:"status" db:"status" example:"Active"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// Principal returns the auth principal for the staff/admin account
func (u *User) Principal() Principal {
	return Principal{Role: u.UserType, ID: u.ID}
}
