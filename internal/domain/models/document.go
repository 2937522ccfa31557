package models

import (
	"slices"
	"time"
)

// Document stores an uploaded file with metadata. FileType (extension) and
// FileSize are derived from the stored file at save time; Version starts at
// 1 and increases by exactly 1 each time the stored object changes.
type Document struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	ObjectKey     string    `json:"-" db:"object_key"`
	FileType      string    `json:"file_type" db:"file_type"`
	FileSize      int64     `json:"file_size" db:"file_size"`
	FolderID      *string   `json:"folder_id" db:"folder_id"` // NULL = root level
	OwnerID       string    `json:"owner_id" db:"owner_id"`
	IsPublic      bool      `json:"is_public" db:"is_public"`
	Version       int       `json:"version" db:"version"`
	Tags          []Tag     `json:"tags"`
	SharedUserIDs []string  `json:"shared_user_ids"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Owner implements services.Shareable.
func (d *Document) Owner() string { return d.OwnerID }

// Public implements services.Shareable.
func (d *Document) Public() bool { return d.IsPublic }

// SharedWith implements services.Shareable.
func (d *Document) SharedWith(userID string) bool {
	return slices.Contains(d.SharedUserIDs, userID)
}

// DocumentVersion is an immutable snapshot of a document's file content.
// (document, version) pairs are unique; version numbers form a contiguous
// sequence from 1 and are never reused or renumbered.
type DocumentVersion struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	ObjectKey  string    `json:"-" db:"object_key"`
	FileSize   int64     `json:"file_size" db:"file_size"`
	Version    int       `json:"version" db:"version"`
	CreatedBy  string    `json:"created_by" db:"created_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Comment    string    `json:"comment" db:"comment"`
}

// ActivityKind enumerates the auditable actions on documents.
type ActivityKind string

const (
	ActivityCreated   ActivityKind = "created"
	ActivityUpdated   ActivityKind = "updated"
	ActivityDeleted   ActivityKind = "deleted"
	ActivityAccessed  ActivityKind = "accessed"
	ActivityShared    ActivityKind = "shared"
	ActivityUnshared  ActivityKind = "unshared"
	ActivityCommented ActivityKind = "commented"
)

// Valid reports whether k is one of the defined activity kinds.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityCreated, ActivityUpdated, ActivityDeleted, ActivityAccessed,
		ActivityShared, ActivityUnshared, ActivityCommented:
		return true
	}
	return false
}

// DocumentActivity is an append-only audit log entry. DocumentID is kept
// NULL when the document was deleted so the audit trail survives.
type DocumentActivity struct {
	ID          string       `json:"id" db:"id"`
	DocumentID  *string      `json:"document_id" db:"document_id"`
	UserID      string       `json:"user_id" db:"user_id"`
	Kind        ActivityKind `json:"kind" db:"kind"`
	Description string       `json:"description" db:"description"`
	IPAddress   string       `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
