package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

func newActivityFixture(t *testing.T) (services.ActivityService, *fakeDocumentRepo, *fakeActivityRepo) {
	t.Helper()
	docs := newFakeDocumentRepo()
	activities := newFakeActivityRepo(docs)
	svc := NewActivityService(activities, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, docs, activities
}

func TestListActivitiesScope(t *testing.T) {
	svc, docs, activities := newActivityFixture(t)
	ctx := context.Background()

	mine := &models.Document{Title: "Mine", OwnerID: testOwner.ID}
	theirs := &models.Document{Title: "Theirs", OwnerID: testStranger.ID}
	docs.Create(ctx, mine)
	docs.Create(ctx, theirs)

	activities.Create(ctx, &models.DocumentActivity{DocumentID: &mine.ID, UserID: testOwner.ID, Kind: models.ActivityCreated})
	activities.Create(ctx, &models.DocumentActivity{DocumentID: &mine.ID, UserID: testReader.ID, Kind: models.ActivityAccessed})
	activities.Create(ctx, &models.DocumentActivity{DocumentID: &theirs.ID, UserID: testStranger.ID, Kind: models.ActivityCreated})
	// A deletion entry with no document reference
	activities.Create(ctx, &models.DocumentActivity{DocumentID: nil, UserID: testStranger.ID, Kind: models.ActivityDeleted})

	t.Run("owner sees own documents only", func(t *testing.T) {
		got, err := svc.ListActivities(ctx, testOwner, repositories.ActivityFilter{})
		if err != nil {
			t.Fatalf("ListActivities() error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("entries = %d, want 2", len(got))
		}
	})

	t.Run("shared read access does not extend to the audit trail", func(t *testing.T) {
		got, err := svc.ListActivities(ctx, testReader, repositories.ActivityFilter{})
		if err != nil {
			t.Fatalf("ListActivities() error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("entries = %d, want 0", len(got))
		}
	})

	t.Run("admin sees everything including orphaned entries", func(t *testing.T) {
		got, err := svc.ListActivities(ctx, testAdmin, repositories.ActivityFilter{})
		if err != nil {
			t.Fatalf("ListActivities() error: %v", err)
		}
		if len(got) != 4 {
			t.Errorf("entries = %d, want 4", len(got))
		}
	})

	t.Run("filter by kind", func(t *testing.T) {
		got, err := svc.ListActivities(ctx, testAdmin, repositories.ActivityFilter{Kind: models.ActivityCreated})
		if err != nil {
			t.Fatalf("ListActivities() error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("entries = %d, want 2", len(got))
		}
	})

	t.Run("filter by document", func(t *testing.T) {
		got, err := svc.ListActivities(ctx, testAdmin, repositories.ActivityFilter{DocumentID: &mine.ID})
		if err != nil {
			t.Fatalf("ListActivities() error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("entries = %d, want 2", len(got))
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := svc.ListActivities(ctx, testAdmin, repositories.ActivityFilter{Kind: "perused"})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("ListActivities() = %v, want ErrValidation", err)
		}
	})
}
