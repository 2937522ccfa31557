package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	FolderID *string // only documents in this folder
	TagID    *string // only documents carrying this tag
	Search   string  // title/description substring
}

// DocumentRepository handles document persistence
type DocumentRepository interface {
	// Create creates a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID regardless of visibility, with
	// tags and shared-user set loaded. Callers authorize separately.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Update updates a document's mutable fields, including object key,
	// derived file metadata and version counter
	Update(ctx context.Context, doc *models.Document) error

	// Delete deletes a document; versions, comments and shares cascade,
	// activity rows keep a NULL document reference
	Delete(ctx context.Context, id string) error

	// ListVisible lists documents owned by, shared with, or public to the
	// user, newest modified first
	ListVisible(ctx context.Context, userID string, filter DocumentFilter) ([]models.Document, error)

	// ListByFolder lists documents in a folder
	ListByFolder(ctx context.Context, folderID string) ([]models.Document, error)

	// SetTags replaces the document's tag set
	SetTags(ctx context.Context, documentID string, tagIDs []string) error

	// AddSharedUsers adds user IDs to the document's shared set
	AddSharedUsers(ctx context.Context, documentID string, userIDs []string) error

	// RemoveSharedUsers removes user IDs from the document's shared set
	RemoveSharedUsers(ctx context.Context, documentID string, userIDs []string) error
}

// VersionRepository handles document version persistence. Version rows are
// immutable once written.
type VersionRepository interface {
	// Create persists a new version snapshot
	Create(ctx context.Context, version *models.DocumentVersion) error

	// GetByID retrieves a version by ID
	GetByID(ctx context.Context, id string) (*models.DocumentVersion, error)

	// ListByDocument lists a document's versions, newest first
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error)
}

// ActivityFilter narrows activity listings.
type ActivityFilter struct {
	Kind       models.ActivityKind
	DocumentID *string
}

// ActivityRepository handles the append-only activity log
type ActivityRepository interface {
	// Create appends an activity entry
	Create(ctx context.Context, activity *models.DocumentActivity) error

	// ListForOwner lists activities on documents owned by ownerID
	ListForOwner(ctx context.Context, ownerID string, filter ActivityFilter) ([]models.DocumentActivity, error)

	// ListAll lists all activities (administrators only)
	ListAll(ctx context.Context, filter ActivityFilter) ([]models.DocumentActivity, error)
}
