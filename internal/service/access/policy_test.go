package access

import (
	"errors"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

func TestSharedReadPolicy(t *testing.T) {
	owner := models.Principal{ID: "alice", Role: models.RoleUser}
	admin := models.Principal{ID: "root", Role: models.RoleAdmin}
	shared := models.Principal{ID: "bob", Role: models.RoleUser}
	stranger := models.Principal{ID: "mallory", Role: models.RoleUser}

	private := &models.Document{OwnerID: "alice", SharedUserIDs: []string{"bob"}}
	public := &models.Document{OwnerID: "alice", IsPublic: true}

	tests := []struct {
		name    string
		p       models.Principal
		entity  services.Shareable
		op      services.Operation
		wantErr error
	}{
		{"owner reads own document", owner, private, services.OpRead, nil},
		{"owner writes own document", owner, private, services.OpWrite, nil},
		{"admin reads any document", admin, private, services.OpRead, nil},
		{"admin writes any document", admin, private, services.OpWrite, nil},
		{"shared user reads", shared, private, services.OpRead, nil},
		{"shared user cannot write", shared, private, services.OpWrite, domain.ErrForbidden},
		{"stranger cannot read private", stranger, private, services.OpRead, domain.ErrNotFound},
		{"stranger cannot write private", stranger, private, services.OpWrite, domain.ErrNotFound},
		{"stranger reads public", stranger, public, services.OpRead, nil},
		{"stranger cannot write public", stranger, public, services.OpWrite, domain.ErrForbidden},
		{"shared folder read", shared, &models.Folder{OwnerID: "alice", SharedUserIDs: []string{"bob"}}, services.OpRead, nil},
	}

	policy := NewSharedReadPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(tt.p, tt.entity, tt.op)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Authorize() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authorize() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSharedReadPolicyHidesExistence(t *testing.T) {
	// A principal with no relationship to the entity must get the same
	// error for reads and writes, and it must be NotFound, not Forbidden.
	policy := NewSharedReadPolicy()
	stranger := models.Principal{ID: "mallory", Role: models.RoleUser}
	private := &models.Document{OwnerID: "alice"}

	for _, op := range []services.Operation{services.OpRead, services.OpWrite} {
		err := policy.Authorize(stranger, private, op)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("op %v: got %v, want ErrNotFound", op, err)
		}
		if errors.Is(err, domain.ErrForbidden) {
			t.Errorf("op %v: error leaks existence as Forbidden", op)
		}
	}
}

func TestOwnerWritePolicy(t *testing.T) {
	author := models.Principal{ID: "alice", Role: models.RoleUser}
	admin := models.Principal{ID: "root", Role: models.RoleAdmin}
	other := models.Principal{ID: "bob", Role: models.RoleUser}

	comment := &models.Comment{UserID: "alice"}

	tests := []struct {
		name    string
		p       models.Principal
		op      services.Operation
		wantErr error
	}{
		{"anyone reads", other, services.OpRead, nil},
		{"author writes", author, services.OpWrite, nil},
		{"admin writes", admin, services.OpWrite, nil},
		{"non-author cannot write", other, services.OpWrite, domain.ErrForbidden},
	}

	policy := NewOwnerWritePolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(tt.p, comment, tt.op)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Authorize() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Authorize() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
