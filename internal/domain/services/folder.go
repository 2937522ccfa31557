package services

import (
	"context"

	"docvault/internal/domain/models"
	"docvault/internal/httputil"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder owned by the principal
	CreateFolder(ctx context.Context, p models.Principal, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder with its computed path
	GetFolder(ctx context.Context, p models.Principal, id string) (*models.Folder, error)

	// GetContents retrieves a folder's immediate subfolders and documents
	GetContents(ctx context.Context, p models.Principal, id string) (*FolderContents, error)

	// ListFolders lists folders visible to the principal
	ListFolders(ctx context.Context, p models.Principal) ([]models.Folder, error)

	// UpdateFolder updates a folder (rename, move, description, public flag)
	UpdateFolder(ctx context.Context, p models.Principal, id string, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder and, by cascade, its subtree
	DeleteFolder(ctx context.Context, p models.Principal, id string) error

	// Share adds users to the folder's shared set
	Share(ctx context.Context, p models.Principal, id string, userIDs []string) (*models.Folder, error)

	// Unshare removes users from the folder's shared set
	Unshare(ctx context.Context, p models.Principal, id string, userIDs []string) (*models.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id,omitempty"` // null for root
	IsPublic    bool    `json:"is_public"`
}

// UpdateFolderRequest represents a folder update request. ParentID uses
// tri-state semantics: absent = keep, null = move to root, value = move.
type UpdateFolderRequest struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	ParentID    httputil.OptionalString `json:"parent_id,omitempty"`
	IsPublic    *bool                   `json:"is_public,omitempty"`
}

// FolderContents represents a folder with its immediate children
type FolderContents struct {
	Folder    *models.Folder    `json:"folder"`
	Folders   []models.Folder   `json:"subfolders"`
	Documents []models.Document `json:"documents"`
}
