package dto

import "time"

// CreateNoticeRequest represents notice creation data
type CreateNoticeRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Type         string     `json:"type" binding:"required,oneof=news events meetings"`
	Status       string     `json:"status,omitempty" binding:"omitempty,oneof=draft published"`
	PublishStart *time.Time `json:"publishStart,omitempty"`
	PublishEnd   *time.Time `json:"publishEnd,omitempty"`
}

// UpdateNoticeRequest represents whitelisted notice update fields
type UpdateNoticeRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Type         string     `json:"type" binding:"required,oneof=news events meetings"`
	Status       string     `json:"status" binding:"required,oneof=draft published"`
	PublishStart *time.Time `json:"publishStart,omitempty"`
	PublishEnd   *time.Time `json:"publishEnd,omitempty"`
}
