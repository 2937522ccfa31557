// Package access implements the permission ladder applied to every
// folder, document and comment operation.
package access

import (
	"fmt"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

// SharedReadPolicy is the default policy for shareable entities.
// Rules, evaluated in order:
//  1. administrator → allow all operations
//  2. owner → allow all operations
//  3. public entity → allow reads
//  4. entity shared with principal → allow reads
//  5. otherwise → deny
//
// A denied principal who cannot read the entity gets ErrNotFound so the
// entity's existence never leaks; a principal who can read it but may not
// write gets ErrForbidden.
type SharedReadPolicy struct{}

// NewSharedReadPolicy creates the default access policy
func NewSharedReadPolicy() services.AccessPolicy {
	return SharedReadPolicy{}
}

// Authorize implements services.AccessPolicy
func (SharedReadPolicy) Authorize(p models.Principal, entity services.Shareable, op services.Operation) error {
	if p.IsAdmin() {
		return nil
	}
	if entity.Owner() == p.ID {
		return nil
	}
	if entity.Public() || entity.SharedWith(p.ID) {
		if op == services.OpRead {
			return nil
		}
		return fmt.Errorf("write access denied: %w", domain.ErrForbidden)
	}
	return fmt.Errorf("resource not visible: %w", domain.ErrNotFound)
}

// OwnerWritePolicy passes every read through and restricts writes to the
// entity's owner or an administrator. It is applied per object to entities
// whose read visibility is decided elsewhere (e.g. comments, readable by
// whoever can read the document).
type OwnerWritePolicy struct{}

// NewOwnerWritePolicy creates the owner-write policy
func NewOwnerWritePolicy() services.AccessPolicy {
	return OwnerWritePolicy{}
}

// Authorize implements services.AccessPolicy
func (OwnerWritePolicy) Authorize(p models.Principal, entity services.Shareable, op services.Operation) error {
	if op == services.OpRead {
		return nil
	}
	if p.IsAdmin() || entity.Owner() == p.ID {
		return nil
	}
	return fmt.Errorf("write access denied: %w", domain.ErrForbidden)
}
