package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// FolderRepository handles folder persistence
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID regardless of visibility,
	// with its shared-user set loaded. Callers authorize separately.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// GetByNameAndParent finds an owner's folder by name under a parent.
	// Returns (nil, nil) when no such folder exists.
	GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error)

	// Update updates a folder's mutable fields
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder; children and contained documents cascade
	Delete(ctx context.Context, id string) error

	// ListVisible lists folders owned by, shared with, or public to the user
	ListVisible(ctx context.Context, userID string) ([]models.Folder, error)

	// ListByParent lists immediate child folders
	ListByParent(ctx context.Context, parentID string) ([]models.Folder, error)

	// GetPath computes the folder's full path by walking the parent chain
	GetPath(ctx context.Context, id string) (string, error)

	// AddSharedUsers adds user IDs to the folder's shared set
	AddSharedUsers(ctx context.Context, folderID string, userIDs []string) error

	// RemoveSharedUsers removes user IDs from the folder's shared set
	RemoveSharedUsers(ctx context.Context, folderID string, userIDs []string) error
}
