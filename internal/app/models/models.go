package models

import (
	"strconv"
	"strings"
)

// RoleType represents the role carried in auth token claims
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleStaff   RoleType = "STAFF"
	RoleAdmin   RoleType = "ADMIN"
)

// Valid reports whether the role is one of the known variants
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Principal identifies an authenticated account across the two account tables:
// students.id for RoleStudent, users.id for RoleStaff/RoleAdmin.
type Principal struct {
	Role RoleType `json:"role"`
	ID   int64    `json:"id"`
}

// Key returns the stable storage key for the principal, e.g. "student:7".
// Chat participants and timeline likers are stored under this key so the two
// account tables share one identifier space.
func (p Principal) Key() string {
	return strings.ToLower(string(p.Role)) + ":" + strconv.FormatInt(p.ID, 10)
}

// AccountStatus represents whether an account may log in
type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusInactive AccountStatus = "Inactive"
)
