package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// TagRepository handles tag persistence
type TagRepository interface {
	// Create creates a new tag
	Create(ctx context.Context, tag *models.Tag) error

	// GetByID retrieves a tag by ID
	GetByID(ctx context.Context, id string) (*models.Tag, error)

	// Update updates a tag's name and slug
	Update(ctx context.Context, tag *models.Tag) error

	// Delete deletes a tag
	Delete(ctx context.Context, id string) error

	// List lists tags, optionally filtered by a name substring
	List(ctx context.Context, search string) ([]models.Tag, error)
}
