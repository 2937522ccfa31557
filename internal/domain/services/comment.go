package services

import (
	"context"

	"docvault/internal/domain/models"
)

// CommentService handles comments on documents
type CommentService interface {
	// AddComment persists a comment (optionally threaded under a parent on
	// the same document) and logs a "commented" activity.
	AddComment(ctx context.Context, p models.Principal, documentID string, req *CreateCommentRequest, origin string) (*models.Comment, error)

	// ListComments lists comments on a document visible to the principal
	ListComments(ctx context.Context, p models.Principal, documentID string) ([]models.Comment, error)

	// GetComment retrieves a comment by ID
	GetComment(ctx context.Context, p models.Principal, id string) (*models.Comment, error)

	// UpdateComment edits a comment's content (author or admin only)
	UpdateComment(ctx context.Context, p models.Principal, id string, req *UpdateCommentRequest) (*models.Comment, error)

	// DeleteComment deletes a comment (author or admin only)
	DeleteComment(ctx context.Context, p models.Principal, id string) error
}

// CreateCommentRequest represents a comment creation request
type CreateCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateCommentRequest represents a comment edit
type UpdateCommentRequest struct {
	Content string `json:"content"`
}
