package dto

// CreatePostRequest represents timeline post creation data
type CreatePostRequest struct {
	Body       string `json:"body" binding:"required"`
	Visibility string `json:"visibility" binding:"required,oneof=public campus students staff private"`
}

// CreateCommentRequest represents one comment on a post
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}
