package services

import "docvault/internal/domain/models"

// Operation classifies what the principal is attempting. Read covers safe,
// non-mutating requests; Write covers create/update/delete/share.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

// Shareable is the capability interface every shareable entity implements.
// Permission checks dispatch through it instead of probing entity
// attributes at runtime.
type Shareable interface {
	// Owner returns the owning user's ID
	Owner() string

	// Public reports whether any authenticated principal may read the entity
	Public() bool

	// SharedWith reports whether the entity is shared with the given user
	SharedWith(userID string) bool
}

// AccessPolicy decides whether a principal may perform an operation on an
// entity. Implementations return domain.ErrNotFound when the entity is not
// visible to the principal at all (existence must not leak) and
// domain.ErrForbidden when it is readable but the operation is denied.
type AccessPolicy interface {
	Authorize(p models.Principal, entity Shareable, op Operation) error
}
