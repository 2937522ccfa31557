package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the persistence contracts closely
// enough for service-level behavior: duplicate guards, not-found wrapping,
// visibility predicates and cascade semantics.

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// capturePublisher records published activities for assertions.
type capturePublisher struct {
	mu        sync.Mutex
	published []models.DocumentActivity
}

func (p *capturePublisher) Publish(_ context.Context, activity *models.DocumentActivity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, *activity)
	return nil
}

type fakeFolderRepo struct {
	folders map[string]*models.Folder
	nextID  int
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	for _, f := range r.folders {
		if f.OwnerID == folder.OwnerID && f.Name == folder.Name && ptrEq(f.ParentID, folder.ParentID) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists in this location", folder.Name),
				ResourceType: "folder",
				ResourceID:   f.ID,
			}
		}
	}
	r.nextID++
	folder.ID = fmt.Sprintf("folder-%d", r.nextID)
	r.folders[folder.ID] = folder
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	folder, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folder, nil
}

func (r *fakeFolderRepo) GetByNameAndParent(_ context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.Name == name && ptrEq(f.ParentID, parentID) {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = folder
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	for childID, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == id {
			_ = r.Delete(context.Background(), childID)
		}
	}
	return nil
}

func (r *fakeFolderRepo) ListVisible(_ context.Context, userID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.OwnerID == userID || f.IsPublic || f.SharedWith(userID) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListByParent(_ context.Context, parentID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) GetPath(_ context.Context, id string) (string, error) {
	var parts []string
	for {
		f, ok := r.folders[id]
		if !ok {
			return "", fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		parts = append([]string{f.Name}, parts...)
		if f.ParentID == nil {
			return strings.Join(parts, "/"), nil
		}
		id = *f.ParentID
	}
}

func (r *fakeFolderRepo) AddSharedUsers(_ context.Context, folderID string, userIDs []string) error {
	f, ok := r.folders[folderID]
	if !ok {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	f.SharedUserIDs = addAll(f.SharedUserIDs, userIDs)
	return nil
}

func (r *fakeFolderRepo) RemoveSharedUsers(_ context.Context, folderID string, userIDs []string) error {
	f, ok := r.folders[folderID]
	if !ok {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
	}
	f.SharedUserIDs = removeAll(f.SharedUserIDs, userIDs)
	return nil
}

type fakeDocumentRepo struct {
	docs   map[string]*models.Document
	nextID int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *models.Document) error {
	r.nextID++
	doc.ID = fmt.Sprintf("doc-%d", r.nextID)
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, doc *models.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) ListVisible(_ context.Context, userID string, filter repositories.DocumentFilter) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.OwnerID != userID && !d.IsPublic && !d.SharedWith(userID) {
			continue
		}
		if filter.FolderID != nil && !ptrEq(d.FolderID, filter.FolderID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.TagID != nil && !hasTag(d.Tags, *filter.TagID) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDocumentRepo) ListByFolder(_ context.Context, folderID string) ([]models.Document, error) {
	var out []models.Document
	for _, d := range r.docs {
		if d.FolderID != nil && *d.FolderID == folderID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) SetTags(_ context.Context, documentID string, tagIDs []string) error {
	doc, ok := r.docs[documentID]
	if !ok {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	doc.Tags = nil
	for _, id := range tagIDs {
		doc.Tags = append(doc.Tags, models.Tag{ID: id})
	}
	return nil
}

func (r *fakeDocumentRepo) AddSharedUsers(_ context.Context, documentID string, userIDs []string) error {
	doc, ok := r.docs[documentID]
	if !ok {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	doc.SharedUserIDs = addAll(doc.SharedUserIDs, userIDs)
	return nil
}

func (r *fakeDocumentRepo) RemoveSharedUsers(_ context.Context, documentID string, userIDs []string) error {
	doc, ok := r.docs[documentID]
	if !ok {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	doc.SharedUserIDs = removeAll(doc.SharedUserIDs, userIDs)
	return nil
}

type fakeVersionRepo struct {
	versions []*models.DocumentVersion
	nextID   int
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{}
}

func (r *fakeVersionRepo) Create(_ context.Context, version *models.DocumentVersion) error {
	for _, v := range r.versions {
		if v.DocumentID == version.DocumentID && v.Version == version.Version {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d already exists", version.Version),
				ResourceType: "document_version",
				ResourceID:   v.ID,
			}
		}
	}
	r.nextID++
	version.ID = fmt.Sprintf("ver-%d", r.nextID)
	r.versions = append(r.versions, version)
	return nil
}

func (r *fakeVersionRepo) GetByID(_ context.Context, id string) (*models.DocumentVersion, error) {
	for _, v := range r.versions {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
}

func (r *fakeVersionRepo) ListByDocument(_ context.Context, documentID string) ([]models.DocumentVersion, error) {
	var out []models.DocumentVersion
	for i := len(r.versions) - 1; i >= 0; i-- {
		if r.versions[i].DocumentID == documentID {
			out = append(out, *r.versions[i])
		}
	}
	return out, nil
}

// fakeActivityRepo scopes owner listings through the document repo, the way
// the SQL join does; entries whose document is gone drop out of owner views
// but stay in the admin view.
type fakeActivityRepo struct {
	activities []*models.DocumentActivity
	docs       *fakeDocumentRepo
	nextID     int
}

func newFakeActivityRepo(docs *fakeDocumentRepo) *fakeActivityRepo {
	return &fakeActivityRepo{docs: docs}
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *models.DocumentActivity) error {
	r.nextID++
	activity.ID = fmt.Sprintf("act-%d", r.nextID)
	r.activities = append(r.activities, activity)
	return nil
}

func (r *fakeActivityRepo) ListForOwner(_ context.Context, ownerID string, filter repositories.ActivityFilter) ([]models.DocumentActivity, error) {
	var out []models.DocumentActivity
	for _, a := range r.activities {
		if a.DocumentID == nil {
			continue
		}
		doc, ok := r.docs.docs[*a.DocumentID]
		if !ok || doc.OwnerID != ownerID {
			continue
		}
		if matchesActivityFilter(a, filter) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) ListAll(_ context.Context, filter repositories.ActivityFilter) ([]models.DocumentActivity, error) {
	var out []models.DocumentActivity
	for _, a := range r.activities {
		if matchesActivityFilter(a, filter) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func matchesActivityFilter(a *models.DocumentActivity, filter repositories.ActivityFilter) bool {
	if filter.Kind != "" && a.Kind != filter.Kind {
		return false
	}
	if filter.DocumentID != nil && !ptrEq(a.DocumentID, filter.DocumentID) {
		return false
	}
	return true
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.nextID++
	comment.ID = fmt.Sprintf("comment-%d", r.nextID)
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return comment, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *models.Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByDocument(_ context.Context, documentID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.DocumentID == documentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeTagRepo struct {
	tags   map[string]*models.Tag
	nextID int
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*models.Tag)}
}

func (r *fakeTagRepo) Create(_ context.Context, tag *models.Tag) error {
	for _, t := range r.tags {
		if t.Name == tag.Name || t.Slug == tag.Slug {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a tag named %q already exists", tag.Name),
				ResourceType: "tag",
				ResourceID:   t.ID,
			}
		}
	}
	r.nextID++
	tag.ID = fmt.Sprintf("tag-%d", r.nextID)
	r.tags[tag.ID] = tag
	return nil
}

func (r *fakeTagRepo) GetByID(_ context.Context, id string) (*models.Tag, error) {
	tag, ok := r.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	return tag, nil
}

func (r *fakeTagRepo) Update(_ context.Context, tag *models.Tag) error {
	for _, t := range r.tags {
		if t.ID != tag.ID && (t.Name == tag.Name || t.Slug == tag.Slug) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a tag named %q already exists", tag.Name),
				ResourceType: "tag",
				ResourceID:   t.ID,
			}
		}
	}
	if _, ok := r.tags[tag.ID]; !ok {
		return fmt.Errorf("tag %s: %w", tag.ID, domain.ErrNotFound)
	}
	r.tags[tag.ID] = tag
	return nil
}

func (r *fakeTagRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tags[id]; !ok {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	delete(r.tags, id)
	return nil
}

func (r *fakeTagRepo) List(_ context.Context, search string) ([]models.Tag, error) {
	var out []models.Tag
	for _, t := range r.tags {
		if search == "" || strings.Contains(strings.ToLower(t.Name), strings.ToLower(search)) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func addAll(existing, add []string) []string {
	for _, id := range add {
		found := false
		for _, e := range existing {
			if e == id {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, id)
		}
	}
	return existing
}

func removeAll(existing, remove []string) []string {
	var out []string
	for _, e := range existing {
		keep := true
		for _, id := range remove {
			if e == id {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

func hasTag(tags []models.Tag, tagID string) bool {
	for _, t := range tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
