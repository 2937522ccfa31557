package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type documentService struct {
	docRepo      repositories.DocumentRepository
	versionRepo  repositories.VersionRepository
	activityRepo repositories.ActivityRepository
	folderRepo   repositories.FolderRepository
	store        services.ObjectStore
	publisher    services.ActivityPublisher
	txManager    repositories.TransactionManager
	policy       services.AccessPolicy
	logger       *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	activityRepo repositories.ActivityRepository,
	folderRepo repositories.FolderRepository,
	store services.ObjectStore,
	publisher services.ActivityPublisher,
	txManager repositories.TransactionManager,
	policy services.AccessPolicy,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:      docRepo,
		versionRepo:  versionRepo,
		activityRepo: activityRepo,
		folderRepo:   folderRepo,
		store:        store,
		publisher:    publisher,
		txManager:    txManager,
		policy:       policy,
		logger:       logger,
	}
}

// CreateDocument persists a document owned by the principal. When a file is
// supplied it also stores the file bytes, writes version 1 and logs a
// "created" activity, all in one transaction.
func (s *documentService) CreateDocument(ctx context.Context, p models.Principal, req *services.CreateDocumentRequest, file *services.UploadedFile, origin string) (*models.Document, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateUpload(file); err != nil {
		return nil, err
	}

	// Normalize empty string to nil for root-level documents
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	if req.FolderID != nil {
		if err := s.authorizeFolder(ctx, p, *req.FolderID); err != nil {
			return nil, err
		}
	}

	doc := &models.Document{
		Title:       req.Title,
		Description: req.Description,
		FolderID:    req.FolderID,
		OwnerID:     p.ID,
		IsPublic:    req.IsPublic,
		Version:     1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if file != nil {
		ext := fileExtension(file.Filename)
		key := buildObjectKey(req.FolderID, ext)
		if err := s.store.Put(ctx, key, file.Content, file.Size, contentTypeFor(ext)); err != nil {
			return nil, err
		}
		doc.ObjectKey = key
		doc.FileType = ext
		doc.FileSize = file.Size
	}

	var activity *models.DocumentActivity
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.docRepo.Create(ctx, doc); err != nil {
			return err
		}
		if len(req.TagIDs) > 0 {
			if err := s.docRepo.SetTags(ctx, doc.ID, req.TagIDs); err != nil {
				return err
			}
		}
		if file == nil {
			return nil
		}

		version := &models.DocumentVersion{
			DocumentID: doc.ID,
			ObjectKey:  doc.ObjectKey,
			FileSize:   doc.FileSize,
			Version:    1,
			CreatedBy:  p.ID,
			Comment:    "Initial version",
		}
		if err := s.versionRepo.Create(ctx, version); err != nil {
			return err
		}

		activity = newActivity(&doc.ID, p, models.ActivityCreated, "Document created", origin)
		return s.activityRepo.Create(ctx, activity)
	})
	if err != nil {
		if doc.ObjectKey != "" {
			s.removeObjects(ctx, doc.ObjectKey)
		}
		return nil, err
	}

	s.publish(ctx, activity)

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"owner_id", doc.OwnerID,
		"folder_id", doc.FolderID,
		"has_file", file != nil,
	)

	return s.docRepo.GetByID(ctx, doc.ID)
}

// GetDocument retrieves a document visible to the principal
func (s *documentService) GetDocument(ctx context.Context, p models.Principal, id string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, doc, services.OpRead); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments lists documents visible to the principal
func (s *documentService) ListDocuments(ctx context.Context, p models.Principal, filter repositories.DocumentFilter) ([]models.Document, error) {
	return s.docRepo.ListVisible(ctx, p.ID, filter)
}

// UpdateDocument updates metadata and, when a new file is supplied, bumps
// the version, snapshots it and logs an "updated" activity. A file whose
// stored object key matches the current one leaves the version untouched.
func (s *documentService) UpdateDocument(ctx context.Context, p models.Principal, id string, req *services.UpdateDocumentRequest, file *services.UploadedFile, origin string) (*models.Document, error) {
	if err := s.validateUpdateRequest(req, file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validateUpload(file); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, doc, services.OpWrite); err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.IsPublic != nil {
		doc.IsPublic = *req.IsPublic
	}

	// FolderID is tri-state: absent = keep, null = move to root, value = move
	if req.FolderID.Present {
		if req.FolderID.Value == nil || *req.FolderID.Value == "" {
			doc.FolderID = nil
		} else {
			if err := s.authorizeFolder(ctx, p, *req.FolderID.Value); err != nil {
				return nil, err
			}
			doc.FolderID = req.FolderID.Value
		}
	}

	replaced := false
	if file != nil {
		ext := fileExtension(file.Filename)
		key := buildObjectKey(doc.FolderID, ext)
		// Identical key means the stored object did not change; the
		// version counter moves only when the object does.
		if key != doc.ObjectKey {
			if err := s.store.Put(ctx, key, file.Content, file.Size, contentTypeFor(ext)); err != nil {
				return nil, err
			}
			doc.ObjectKey = key
			doc.FileType = ext
			doc.FileSize = file.Size
			doc.Version++
			replaced = true
		}
	}

	doc.UpdatedAt = time.Now()

	var activity *models.DocumentActivity
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.docRepo.Update(ctx, doc); err != nil {
			return err
		}
		if req.TagIDs != nil {
			if err := s.docRepo.SetTags(ctx, doc.ID, req.TagIDs); err != nil {
				return err
			}
		}
		if !replaced {
			return nil
		}

		version := &models.DocumentVersion{
			DocumentID: doc.ID,
			ObjectKey:  doc.ObjectKey,
			FileSize:   doc.FileSize,
			Version:    doc.Version,
			CreatedBy:  p.ID,
			Comment:    fmt.Sprintf("Version %d", doc.Version),
		}
		if err := s.versionRepo.Create(ctx, version); err != nil {
			return err
		}

		activity = newActivity(&doc.ID, p, models.ActivityUpdated, fmt.Sprintf("Updated to version %d", doc.Version), origin)
		return s.activityRepo.Create(ctx, activity)
	})
	if err != nil {
		if replaced {
			s.removeObjects(ctx, doc.ObjectKey)
		}
		return nil, err
	}

	s.publish(ctx, activity)

	s.logger.Info("document updated",
		"id", doc.ID,
		"title", doc.Title,
		"version", doc.Version,
		"file_replaced", replaced,
	)

	return s.docRepo.GetByID(ctx, doc.ID)
}

// DeleteDocument logs a "deleted" activity with the document reference unset,
// then removes the row, in one transaction. The audit trail survives.
func (s *documentService) DeleteDocument(ctx context.Context, p models.Principal, id string, origin string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(p, doc, services.OpWrite); err != nil {
		return err
	}

	versions, err := s.versionRepo.ListByDocument(ctx, id)
	if err != nil {
		return err
	}

	activity := newActivity(nil, p, models.ActivityDeleted, fmt.Sprintf("Deleted document: %s", doc.Title), origin)
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			return err
		}
		return s.docRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	// Stored objects are unreachable now; clean them up best-effort
	keys := make([]string, 0, len(versions)+1)
	if doc.ObjectKey != "" {
		keys = append(keys, doc.ObjectKey)
	}
	for _, v := range versions {
		keys = append(keys, v.ObjectKey)
	}
	s.removeObjects(ctx, keys...)

	s.publish(ctx, activity)

	s.logger.Info("document deleted",
		"id", id,
		"title", doc.Title,
		"owner_id", doc.OwnerID,
	)

	return nil
}

// Download opens the document's current file and logs an "accessed" activity
func (s *documentService) Download(ctx context.Context, p models.Principal, id string, origin string) (*services.DownloadResult, error) {
	doc, err := s.GetDocument(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if doc.ObjectKey == "" {
		return nil, fmt.Errorf("document %s has no file: %w", id, domain.ErrNotFound)
	}

	obj, err := s.store.Get(ctx, doc.ObjectKey)
	if err != nil {
		return nil, err
	}

	activity := newActivity(&doc.ID, p, models.ActivityAccessed, "Downloaded document", origin)
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		obj.Content.Close()
		return nil, err
	}
	s.publish(ctx, activity)

	return &services.DownloadResult{
		Filename:    downloadFilename(doc.Title, doc.FileType),
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Content:     obj.Content,
	}, nil
}

// GetVersion retrieves a version of a document visible to the principal
func (s *documentService) GetVersion(ctx context.Context, p models.Principal, versionID string) (*models.DocumentVersion, error) {
	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetDocument(ctx, p, version.DocumentID); err != nil {
		return nil, err
	}
	return version, nil
}

// ListVersions lists a document's versions, newest first
func (s *documentService) ListVersions(ctx context.Context, p models.Principal, documentID string) ([]models.DocumentVersion, error) {
	if _, err := s.GetDocument(ctx, p, documentID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByDocument(ctx, documentID)
}

// DownloadVersion opens a specific version's file and logs an "accessed"
// activity naming the version number.
func (s *documentService) DownloadVersion(ctx context.Context, p models.Principal, versionID string, origin string) (*services.DownloadResult, error) {
	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	doc, err := s.GetDocument(ctx, p, version.DocumentID)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Get(ctx, version.ObjectKey)
	if err != nil {
		return nil, err
	}

	activity := newActivity(&doc.ID, p, models.ActivityAccessed, fmt.Sprintf("Downloaded document version %d", version.Version), origin)
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		obj.Content.Close()
		return nil, err
	}
	s.publish(ctx, activity)

	ext := strings.TrimPrefix(filepath.Ext(version.ObjectKey), ".")
	return &services.DownloadResult{
		Filename:    downloadFilename(fmt.Sprintf("%s_v%d", doc.Title, version.Version), ext),
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Content:     obj.Content,
	}, nil
}

// Share adds users to the document's shared set and logs a "shared" activity
func (s *documentService) Share(ctx context.Context, p models.Principal, id string, userIDs []string, origin string) (*models.Document, error) {
	return s.updateShares(ctx, p, id, userIDs, origin, models.ActivityShared)
}

// Unshare removes users from the shared set and logs an "unshared" activity
func (s *documentService) Unshare(ctx context.Context, p models.Principal, id string, userIDs []string, origin string) (*models.Document, error) {
	return s.updateShares(ctx, p, id, userIDs, origin, models.ActivityUnshared)
}

func (s *documentService) updateShares(ctx context.Context, p models.Principal, id string, userIDs []string, origin string, kind models.ActivityKind) (*models.Document, error) {
	if len(userIDs) > config.MaxShareBatch {
		return nil, fmt.Errorf("%w: at most %d users per request", domain.ErrValidation, config.MaxShareBatch)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, doc, services.OpWrite); err != nil {
		return nil, err
	}

	// Empty list is a no-op
	if len(userIDs) == 0 {
		return doc, nil
	}

	var description string
	var apply func(context.Context, string, []string) error
	if kind == models.ActivityShared {
		description = fmt.Sprintf("Shared with %d users", len(userIDs))
		apply = s.docRepo.AddSharedUsers
	} else {
		description = fmt.Sprintf("Unshared from %d users", len(userIDs))
		apply = s.docRepo.RemoveSharedUsers
	}

	activity := newActivity(&doc.ID, p, kind, description, origin)
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := apply(ctx, id, userIDs); err != nil {
			return err
		}
		return s.activityRepo.Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, activity)

	s.logger.Info("document shares updated",
		"id", id,
		"kind", kind,
		"user_count", len(userIDs),
	)

	return s.docRepo.GetByID(ctx, id)
}

// authorizeFolder checks that the principal may place documents in the folder
func (s *documentService) authorizeFolder(ctx context.Context, p models.Principal, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return fmt.Errorf("folder: %w", err)
	}
	return s.policy.Authorize(p, folder, services.OpWrite)
}

// publish broadcasts the activity best-effort; the row is the source of truth
func (s *documentService) publish(ctx context.Context, activity *models.DocumentActivity) {
	if activity == nil {
		return
	}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		s.logger.Warn("activity publish failed", "activity_id", activity.ID, "error", err)
	}
}

// removeObjects deletes stored objects best-effort
func (s *documentService) removeObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil {
			s.logger.Warn("object cleanup failed", "key", key, "error", err)
		}
	}
}

func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocumentTitleLength),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
	)
}

func (s *documentService) validateUpdateRequest(req *services.UpdateDocumentRequest, file *services.UploadedFile) error {
	if req.Title == nil && req.Description == nil && !req.FolderID.Present &&
		req.TagIDs == nil && req.IsPublic == nil && file == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	var rules []*validation.FieldRules
	if req.Title != nil {
		rules = append(rules,
			validation.Field(&req.Title,
				validation.Required,
				validation.Length(1, config.MaxDocumentTitleLength),
			),
		)
	}
	if req.Description != nil {
		rules = append(rules,
			validation.Field(&req.Description,
				validation.Length(0, config.MaxDescriptionLength),
			),
		)
	}

	return validation.ValidateStruct(req, rules...)
}

// validateUpload bounds the uploaded file size
func validateUpload(file *services.UploadedFile) error {
	if file == nil {
		return nil
	}
	if file.Size > config.MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, config.MaxUploadBytes)
	}
	return nil
}

// newActivity builds an audit entry; documentID is nil for deletions
func newActivity(documentID *string, p models.Principal, kind models.ActivityKind, description, origin string) *models.DocumentActivity {
	return &models.DocumentActivity{
		DocumentID:  documentID,
		UserID:      p.ID,
		Kind:        kind,
		Description: description,
		IPAddress:   origin,
		CreatedAt:   time.Now(),
	}
}

// buildObjectKey derives the storage key for a fresh upload
func buildObjectKey(folderID *string, ext string) string {
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	if folderID != nil {
		return fmt.Sprintf("documents/%s/%s", *folderID, name)
	}
	return "documents/" + name
}

// fileExtension extracts the lowercased extension without the dot
func fileExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

func contentTypeFor(ext string) string {
	if ext == "" {
		return "application/octet-stream"
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func downloadFilename(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}
