package models

import "time"

// Comment is a remark on a document. ParentID threads replies under an
// existing comment on the same document.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	ParentID   *string   `json:"parent_id" db:"parent_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Owner implements services.Shareable; a comment is "owned" by its author.
func (c *Comment) Owner() string { return c.UserID }

// Public implements services.Shareable. Comments are never public on their
// own; read visibility follows the document they belong to.
func (c *Comment) Public() bool { return false }

// SharedWith implements services.Shareable.
func (c *Comment) SharedWith(string) bool { return false }
