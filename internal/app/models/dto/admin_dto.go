package dto

// CreateStaffRequest represents staff/admin account creation by an admin
type CreateStaffRequest struct {
	LoginID  string `json:"loginId" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	UserType string `json:"userType" binding:"required,oneof=STAFF ADMIN"`
}

// UpdateAccountStatusRequest toggles whether an account may log in
type UpdateAccountStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Active Inactive"`
}
