package dto

// OpenSessionRequest asks for the direct session with a peer, creating it on
// first use. The same session is returned regardless of which side opens it.
type OpenSessionRequest struct {
	PeerRole string `json:"peerRole" binding:"required,oneof=STUDENT STAFF ADMIN"`
	PeerID   int64  `json:"peerId" binding:"required,min=1"`
}

// CreateGroupRequest represents group chat creation data
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// SendMessageRequest represents one outgoing chat message. An attachment is
// uploaded separately as multipart and referenced here by URL.
type SendMessageRequest struct {
	Body          string  `json:"body" binding:"required"`
	AttachmentURL *string `json:"attachmentUrl,omitempty"`
}
