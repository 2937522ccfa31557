package services

import (
	"context"
	"io"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/httputil"
)

// DocumentService handles the document lifecycle: creation with an initial
// version, version bumps on file replacement, deletion, sharing, download
// access logging and the activity trail behind all of it.
type DocumentService interface {
	// CreateDocument persists a document owned by the principal. When file
	// is non-nil it also writes DocumentVersion #1 and a "created"
	// activity attributed to the principal and origin address.
	CreateDocument(ctx context.Context, p models.Principal, req *CreateDocumentRequest, file *UploadedFile, origin string) (*models.Document, error)

	// GetDocument retrieves a document visible to the principal
	GetDocument(ctx context.Context, p models.Principal, id string) (*models.Document, error)

	// ListDocuments lists documents visible to the principal
	ListDocuments(ctx context.Context, p models.Principal, filter repositories.DocumentFilter) ([]models.Document, error)

	// UpdateDocument updates metadata and, when file is non-nil and its
	// stored object differs from the current one, bumps the version,
	// snapshots a DocumentVersion and logs an "updated" activity.
	UpdateDocument(ctx context.Context, p models.Principal, id string, req *UpdateDocumentRequest, file *UploadedFile, origin string) (*models.Document, error)

	// DeleteDocument logs a "deleted" activity with the document reference
	// unset, then removes the document row, in one transaction.
	DeleteDocument(ctx context.Context, p models.Principal, id string, origin string) error

	// Download opens the document's current file and logs an "accessed"
	// activity.
	Download(ctx context.Context, p models.Principal, id string, origin string) (*DownloadResult, error)

	// GetVersion retrieves a version of a document visible to the principal
	GetVersion(ctx context.Context, p models.Principal, versionID string) (*models.DocumentVersion, error)

	// ListVersions lists a document's versions, newest first
	ListVersions(ctx context.Context, p models.Principal, documentID string) ([]models.DocumentVersion, error)

	// DownloadVersion opens a specific version's file and logs an
	// "accessed" activity naming the version number.
	DownloadVersion(ctx context.Context, p models.Principal, versionID string, origin string) (*DownloadResult, error)

	// Share adds users to the document's shared set and logs a "shared"
	// activity noting the affected user count.
	Share(ctx context.Context, p models.Principal, id string, userIDs []string, origin string) (*models.Document, error)

	// Unshare removes users from the shared set and logs an "unshared"
	// activity noting the affected user count.
	Unshare(ctx context.Context, p models.Principal, id string, userIDs []string, origin string) (*models.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FolderID    *string  `json:"folder_id,omitempty"` // null for root
	TagIDs      []string `json:"tag_ids,omitempty"`
	IsPublic    bool     `json:"is_public"`
}

// UpdateDocumentRequest represents a document metadata update. FolderID
// uses tri-state semantics: absent = keep, null = move to root.
type UpdateDocumentRequest struct {
	Title       *string                 `json:"title,omitempty"`
	Description *string                 `json:"description,omitempty"`
	FolderID    httputil.OptionalString `json:"folder_id,omitempty"`
	TagIDs      []string                `json:"tag_ids,omitempty"`
	IsPublic    *bool                   `json:"is_public,omitempty"`
}

// DownloadResult is an opened file stream ready to send to the requester
type DownloadResult struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}
