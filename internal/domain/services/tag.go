package services

import (
	"context"

	"docvault/internal/domain/models"
)

// TagService handles tag business logic. Tags are global and unowned;
// any authenticated principal may manage them.
type TagService interface {
	// CreateTag creates a tag, deriving its slug from the name
	CreateTag(ctx context.Context, req *TagRequest) (*models.Tag, error)

	// GetTag retrieves a tag by ID
	GetTag(ctx context.Context, id string) (*models.Tag, error)

	// UpdateTag renames a tag, recomputing its slug
	UpdateTag(ctx context.Context, id string, req *TagRequest) (*models.Tag, error)

	// DeleteTag deletes a tag
	DeleteTag(ctx context.Context, id string) error

	// ListTags lists tags, optionally filtered by a name substring
	ListTags(ctx context.Context, search string) ([]models.Tag, error)
}

// TagRequest carries the tag name for create/update
type TagRequest struct {
	Name string `json:"name"`
}
