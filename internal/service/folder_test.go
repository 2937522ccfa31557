package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
	"docvault/internal/service/access"
)

type folderFixture struct {
	svc     services.FolderService
	folders *fakeFolderRepo
	docs    *fakeDocumentRepo
}

func newFolderFixture() *folderFixture {
	f := &folderFixture{
		folders: newFakeFolderRepo(),
		docs:    newFakeDocumentRepo(),
	}
	f.svc = NewFolderService(
		f.folders,
		f.docs,
		access.NewSharedReadPolicy(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func optString(s string) httputil.OptionalString {
	return httputil.OptionalString{Present: true, Value: &s}
}

func optNull() httputil.OptionalString {
	return httputil.OptionalString{Present: true}
}

func TestCreateFolder(t *testing.T) {
	f := newFolderFixture()
	ctx := context.Background()

	folder, err := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{
		Name: "Reports",
	})
	if err != nil {
		t.Fatalf("CreateFolder() error: %v", err)
	}
	if folder.OwnerID != testOwner.ID {
		t.Errorf("owner = %q, want %q", folder.OwnerID, testOwner.ID)
	}
	if folder.Path != "Reports" {
		t.Errorf("path = %q, want Reports", folder.Path)
	}

	t.Run("nested folder gets full path", func(t *testing.T) {
		child, err := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{
			Name:     "2026",
			ParentID: &folder.ID,
		})
		if err != nil {
			t.Fatalf("CreateFolder() error: %v", err)
		}
		if child.Path != "Reports/2026" {
			t.Errorf("path = %q, want Reports/2026", child.Path)
		}
	})

	t.Run("duplicate name in same location conflicts", func(t *testing.T) {
		_, err := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{
			Name: "Reports",
		})
		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("CreateFolder() = %v, want ConflictError", err)
		}
		if conflict.ResourceID == "" {
			t.Error("conflict does not name the existing folder")
		}
	})

	t.Run("same name under another parent is fine", func(t *testing.T) {
		if _, err := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{
			Name:     "Reports",
			ParentID: &folder.ID,
		}); err != nil {
			t.Fatalf("CreateFolder() error: %v", err)
		}
	})

	t.Run("slash in name rejected", func(t *testing.T) {
		_, err := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{
			Name: "a/b",
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("CreateFolder() = %v, want ErrValidation", err)
		}
	})

	t.Run("cannot create inside a stranger's folder", func(t *testing.T) {
		theirs, _ := f.svc.CreateFolder(ctx, testStranger, &services.CreateFolderRequest{Name: "Private"})
		_, err := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{
			Name:     "Intruder",
			ParentID: &theirs.ID,
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("CreateFolder() = %v, want ErrNotFound", err)
		}
	})
}

func TestUpdateFolderMove(t *testing.T) {
	f := newFolderFixture()
	ctx := context.Background()

	root, _ := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Archive"})
	child, _ := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Old", ParentID: &root.ID})
	grandchild, _ := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Older", ParentID: &child.ID})

	t.Run("move to root via null", func(t *testing.T) {
		moved, err := f.svc.UpdateFolder(ctx, testOwner, grandchild.ID, &services.UpdateFolderRequest{
			ParentID: optNull(),
		})
		if err != nil {
			t.Fatalf("UpdateFolder() error: %v", err)
		}
		if moved.ParentID != nil {
			t.Errorf("parent = %v, want nil", *moved.ParentID)
		}
		if moved.Path != "Older" {
			t.Errorf("path = %q, want Older", moved.Path)
		}
	})

	t.Run("move into own subtree rejected", func(t *testing.T) {
		_, err := f.svc.UpdateFolder(ctx, testOwner, root.ID, &services.UpdateFolderRequest{
			ParentID: optString(child.ID),
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("UpdateFolder() = %v, want ErrValidation", err)
		}
	})

	t.Run("move into itself rejected", func(t *testing.T) {
		_, err := f.svc.UpdateFolder(ctx, testOwner, root.ID, &services.UpdateFolderRequest{
			ParentID: optString(root.ID),
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("UpdateFolder() = %v, want ErrValidation", err)
		}
	})

	t.Run("legal move updates path", func(t *testing.T) {
		moved, err := f.svc.UpdateFolder(ctx, testOwner, child.ID, &services.UpdateFolderRequest{
			ParentID: optNull(),
		})
		if err != nil {
			t.Fatalf("UpdateFolder() error: %v", err)
		}
		if moved.Path != "Old" {
			t.Errorf("path = %q, want Old", moved.Path)
		}
	})

	t.Run("no fields rejected", func(t *testing.T) {
		_, err := f.svc.UpdateFolder(ctx, testOwner, root.ID, &services.UpdateFolderRequest{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("UpdateFolder() = %v, want ErrValidation", err)
		}
	})
}

func TestGetContents(t *testing.T) {
	f := newFolderFixture()
	ctx := context.Background()

	root, _ := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Projects"})
	f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Alpha", ParentID: &root.ID})
	f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Beta", ParentID: &root.ID})
	f.docs.Create(ctx, &models.Document{Title: "Charter", FolderID: &root.ID, OwnerID: testOwner.ID})

	contents, err := f.svc.GetContents(ctx, testOwner, root.ID)
	if err != nil {
		t.Fatalf("GetContents() error: %v", err)
	}
	if len(contents.Folders) != 2 {
		t.Errorf("subfolders = %d, want 2", len(contents.Folders))
	}
	if len(contents.Documents) != 1 {
		t.Errorf("documents = %d, want 1", len(contents.Documents))
	}
	if contents.Folder.Path != "Projects" {
		t.Errorf("path = %q, want Projects", contents.Folder.Path)
	}
}

func TestFolderSharing(t *testing.T) {
	f := newFolderFixture()
	ctx := context.Background()

	folder, _ := f.svc.CreateFolder(ctx, testOwner, &services.CreateFolderRequest{Name: "Shared Space"})

	shared, err := f.svc.Share(ctx, testOwner, folder.ID, []string{testReader.ID})
	if err != nil {
		t.Fatalf("Share() error: %v", err)
	}
	if !shared.SharedWith(testReader.ID) {
		t.Errorf("shared users = %v, want %q present", shared.SharedUserIDs, testReader.ID)
	}

	t.Run("shared user can read", func(t *testing.T) {
		if _, err := f.svc.GetFolder(ctx, testReader, folder.ID); err != nil {
			t.Errorf("GetFolder() error: %v", err)
		}
	})

	t.Run("shared user cannot delete", func(t *testing.T) {
		err := f.svc.DeleteFolder(ctx, testReader, folder.ID)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("DeleteFolder() = %v, want ErrForbidden", err)
		}
	})

	unshared, err := f.svc.Unshare(ctx, testOwner, folder.ID, []string{testReader.ID})
	if err != nil {
		t.Fatalf("Unshare() error: %v", err)
	}
	if unshared.SharedWith(testReader.ID) {
		t.Error("user still in shared set after unshare")
	}

	t.Run("former reader loses visibility", func(t *testing.T) {
		_, err := f.svc.GetFolder(ctx, testReader, folder.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetFolder() = %v, want ErrNotFound", err)
		}
	})
}
