package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/services"
)

func newTagService(t *testing.T) (services.TagService, *fakeTagRepo) {
	t.Helper()
	repo := newFakeTagRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTagService(repo, logger), repo
}

func TestCreateTag(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTagService(t)

	tag, err := svc.CreateTag(ctx, &services.TagRequest{Name: "Annual Report"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.Slug != "annual-report" {
		t.Errorf("slug = %q, want annual-report", tag.Slug)
	}
	if tag.ID == "" {
		t.Error("expected generated ID")
	}

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := svc.CreateTag(ctx, &services.TagRequest{Name: "Annual Report"})
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("err = %v, want ErrConflict", err)
		}
		var conflictErr *domain.ConflictError
		if !errors.As(err, &conflictErr) || conflictErr.ResourceID != tag.ID {
			t.Errorf("conflict should reference the existing tag, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.CreateTag(ctx, &services.TagRequest{Name: ""})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("symbol-only name rejected", func(t *testing.T) {
		_, err := svc.CreateTag(ctx, &services.TagRequest{Name: "!!!"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})
}

func TestUpdateTag(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTagService(t)

	tag, err := svc.CreateTag(ctx, &services.TagRequest{Name: "Drafts"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	updated, err := svc.UpdateTag(ctx, tag.ID, &services.TagRequest{Name: "Final Drafts"})
	if err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if updated.Name != "Final Drafts" || updated.Slug != "final-drafts" {
		t.Errorf("got %q/%q, want Final Drafts/final-drafts", updated.Name, updated.Slug)
	}

	t.Run("unknown tag", func(t *testing.T) {
		_, err := svc.UpdateTag(ctx, "tag-999", &services.TagRequest{Name: "Anything"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestListTagsSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTagService(t)

	for _, name := range []string{"Finance", "Financial Planning", "Legal"} {
		if _, err := svc.CreateTag(ctx, &services.TagRequest{Name: name}); err != nil {
			t.Fatalf("CreateTag(%s): %v", name, err)
		}
	}

	all, err := svc.ListTags(ctx, "")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}

	matched, err := svc.ListTags(ctx, "finan")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("len = %d, want 2", len(matched))
	}
}

func TestDeleteTag(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTagService(t)

	tag, err := svc.CreateTag(ctx, &services.TagRequest{Name: "Obsolete"})
	if err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := svc.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if len(repo.tags) != 0 {
		t.Errorf("expected empty repo, have %d tags", len(repo.tags))
	}

	if err := svc.DeleteTag(ctx, tag.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
