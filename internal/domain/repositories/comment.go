package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// CommentRepository handles comment persistence
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *models.Comment) error

	// GetByID retrieves a comment by ID
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// Update updates a comment's content
	Update(ctx context.Context, comment *models.Comment) error

	// Delete deletes a comment; threaded replies cascade
	Delete(ctx context.Context, id string) error

	// ListByDocument lists a document's comments, newest first
	ListByDocument(ctx context.Context, documentID string) ([]models.Comment, error)
}
