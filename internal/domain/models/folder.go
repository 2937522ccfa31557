package models

import (
	"slices"
	"time"
)

// Folder organizes documents into a tree. The (owner, parent, name) triple
// is unique; Path is the display path computed by walking the parent chain,
// it is not stored.
type Folder struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	ParentID      *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	OwnerID       string    `json:"owner_id" db:"owner_id"`
	IsPublic      bool      `json:"is_public" db:"is_public"`
	SharedUserIDs []string  `json:"shared_user_ids"`
	Path          string    `json:"path,omitempty"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Owner implements services.Shareable.
func (f *Folder) Owner() string { return f.OwnerID }

// Public implements services.Shareable.
func (f *Folder) Public() bool { return f.IsPublic }

// SharedWith implements services.Shareable.
func (f *Folder) SharedWith(userID string) bool {
	return slices.Contains(f.SharedUserIDs, userID)
}
