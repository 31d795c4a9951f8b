package dto

// CreateDiscussionRequest represents discussion creation data. An attachment
// is uploaded separately as multipart and referenced here by URL.
type CreateDiscussionRequest struct {
	Title         string  `json:"title" binding:"required"`
	Body          string  `json:"body" binding:"required"`
	AttachmentURL *string `json:"attachmentUrl,omitempty"`
}

// CreateReplyRequest represents one reply, optionally nested under a parent
type CreateReplyRequest struct {
	Body          string `json:"body" binding:"required"`
	ParentReplyID *int64 `json:"parentReplyId,omitempty"`
}

// LikeResponse reports the state after a like toggle
type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
