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
	"docvault/internal/service/access"
)

type commentFixture struct {
	svc        services.CommentService
	comments   *fakeCommentRepo
	docs       *fakeDocumentRepo
	activities *fakeActivityRepo
}

func newCommentFixture() *commentFixture {
	docs := newFakeDocumentRepo()
	f := &commentFixture{
		comments:   newFakeCommentRepo(),
		docs:       docs,
		activities: newFakeActivityRepo(docs),
	}
	f.svc = NewCommentService(
		f.comments,
		f.docs,
		f.activities,
		&capturePublisher{},
		fakeTxManager{},
		access.NewSharedReadPolicy(),
		access.NewOwnerWritePolicy(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *commentFixture) seedDocument(t *testing.T, doc *models.Document) *models.Document {
	t.Helper()
	if err := f.docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

func TestAddComment(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.seedDocument(t, &models.Document{Title: "RFC", OwnerID: testOwner.ID, SharedUserIDs: []string{testReader.ID}})

	comment, err := f.svc.AddComment(ctx, testReader, doc.ID, &services.CreateCommentRequest{
		Content: "Looks good to me",
	}, "10.0.0.5")
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}
	if comment.UserID != testReader.ID {
		t.Errorf("author = %q, want %q", comment.UserID, testReader.ID)
	}

	if len(f.activities.activities) != 1 {
		t.Fatalf("activities = %d, want 1", len(f.activities.activities))
	}
	act := f.activities.activities[0]
	if act.Kind != models.ActivityCommented || act.Description != "Added a comment" {
		t.Errorf("activity = %s %q, want commented %q", act.Kind, act.Description, "Added a comment")
	}

	t.Run("reply threads under parent", func(t *testing.T) {
		reply, err := f.svc.AddComment(ctx, testOwner, doc.ID, &services.CreateCommentRequest{
			Content:  "Thanks",
			ParentID: &comment.ID,
		}, "")
		if err != nil {
			t.Fatalf("AddComment() error: %v", err)
		}
		if reply.ParentID == nil || *reply.ParentID != comment.ID {
			t.Errorf("parent = %v, want %q", reply.ParentID, comment.ID)
		}
	})

	t.Run("reply to a comment on another document rejected", func(t *testing.T) {
		other := f.seedDocument(t, &models.Document{Title: "Other", OwnerID: testOwner.ID})
		_, err := f.svc.AddComment(ctx, testOwner, other.ID, &services.CreateCommentRequest{
			Content:  "Crossing threads",
			ParentID: &comment.ID,
		}, "")
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("AddComment() = %v, want ErrValidation", err)
		}
	})

	t.Run("stranger cannot comment on a private document", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, testStranger, doc.ID, &services.CreateCommentRequest{
			Content: "Let me in",
		}, "")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("AddComment() = %v, want ErrNotFound", err)
		}
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, err := f.svc.AddComment(ctx, testOwner, doc.ID, &services.CreateCommentRequest{}, "")
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("AddComment() = %v, want ErrValidation", err)
		}
	})
}

func TestCommentEdits(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.seedDocument(t, &models.Document{Title: "Draft", OwnerID: testOwner.ID, IsPublic: true})

	comment, err := f.svc.AddComment(ctx, testReader, doc.ID, &services.CreateCommentRequest{
		Content: "First pass",
	}, "")
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}

	t.Run("author edits", func(t *testing.T) {
		updated, err := f.svc.UpdateComment(ctx, testReader, comment.ID, &services.UpdateCommentRequest{
			Content: "Second pass",
		})
		if err != nil {
			t.Fatalf("UpdateComment() error: %v", err)
		}
		if updated.Content != "Second pass" {
			t.Errorf("content = %q, want Second pass", updated.Content)
		}
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		_, err := f.svc.UpdateComment(ctx, testStranger, comment.ID, &services.UpdateCommentRequest{
			Content: "Vandalism",
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("UpdateComment() = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin deletes", func(t *testing.T) {
		if err := f.svc.DeleteComment(ctx, testAdmin, comment.ID); err != nil {
			t.Fatalf("DeleteComment() error: %v", err)
		}
		if _, err := f.comments.GetByID(ctx, comment.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Error("comment still present after delete")
		}
	})
}

func TestCommentVisibilityFollowsDocument(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.seedDocument(t, &models.Document{Title: "Private Notes", OwnerID: testOwner.ID})

	comment, err := f.svc.AddComment(ctx, testOwner, doc.ID, &services.CreateCommentRequest{
		Content: "Note to self",
	}, "")
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}

	if _, err := f.svc.GetComment(ctx, testStranger, comment.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetComment() = %v, want ErrNotFound", err)
	}
	if _, err := f.svc.ListComments(ctx, testStranger, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ListComments() = %v, want ErrNotFound", err)
	}
}
