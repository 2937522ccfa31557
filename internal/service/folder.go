package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	policy     services.AccessPolicy
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	policy services.AccessPolicy,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		policy:     policy,
		logger:     logger,
	}
}

// CreateFolder creates a new folder owned by the principal
func (s *folderService) CreateFolder(ctx context.Context, p models.Principal, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	// A subfolder goes inside a parent the principal can write to
	if req.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
		if err := s.policy.Authorize(p, parent, services.OpWrite); err != nil {
			return nil, err
		}
	}

	folder := &models.Folder{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		OwnerID:     p.ID,
		IsPublic:    req.IsPublic,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.setPath(ctx, folder)

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves a folder with its computed path
func (s *folderService) GetFolder(ctx context.Context, p models.Principal, id string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, folder, services.OpRead); err != nil {
		return nil, err
	}

	s.setPath(ctx, folder)
	return folder, nil
}

// GetContents retrieves a folder with its immediate subfolders and documents
func (s *folderService) GetContents(ctx context.Context, p models.Principal, id string) (*services.FolderContents, error) {
	folder, err := s.GetFolder(ctx, p, id)
	if err != nil {
		return nil, err
	}

	subfolders, err := s.folderRepo.ListByParent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list subfolders: %w", err)
	}

	docs, err := s.docRepo.ListByFolder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list folder documents: %w", err)
	}

	return &services.FolderContents{
		Folder:    folder,
		Folders:   subfolders,
		Documents: docs,
	}, nil
}

// ListFolders lists folders visible to the principal
func (s *folderService) ListFolders(ctx context.Context, p models.Principal) ([]models.Folder, error) {
	return s.folderRepo.ListVisible(ctx, p.ID)
}

// UpdateFolder updates a folder (rename, move, description, public flag)
func (s *folderService) UpdateFolder(ctx context.Context, p models.Principal, id string, req *services.UpdateFolderRequest) (*models.Folder, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, folder, services.OpWrite); err != nil {
		return nil, err
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Description != nil {
		folder.Description = *req.Description
	}
	if req.IsPublic != nil {
		folder.IsPublic = *req.IsPublic
	}

	// ParentID is tri-state: absent = keep, null = move to root, value = move
	if req.ParentID.Present {
		if req.ParentID.Value == nil || *req.ParentID.Value == "" {
			folder.ParentID = nil
		} else {
			parent, err := s.folderRepo.GetByID(ctx, *req.ParentID.Value)
			if err != nil {
				return nil, fmt.Errorf("parent folder: %w", err)
			}
			if err := s.policy.Authorize(p, parent, services.OpWrite); err != nil {
				return nil, err
			}
			if err := s.ensureNoCycle(ctx, id, parent.ID); err != nil {
				return nil, err
			}
			folder.ParentID = &parent.ID
		}
	}

	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.setPath(ctx, folder)

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder; subfolders and contained documents cascade
func (s *folderService) DeleteFolder(ctx context.Context, p models.Principal, id string) error {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(p, folder, services.OpWrite); err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", id,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
	)

	return nil
}

// Share adds users to the folder's shared set
func (s *folderService) Share(ctx context.Context, p models.Principal, id string, userIDs []string) (*models.Folder, error) {
	return s.updateShares(ctx, p, id, userIDs, s.folderRepo.AddSharedUsers)
}

// Unshare removes users from the folder's shared set
func (s *folderService) Unshare(ctx context.Context, p models.Principal, id string, userIDs []string) (*models.Folder, error) {
	return s.updateShares(ctx, p, id, userIDs, s.folderRepo.RemoveSharedUsers)
}

func (s *folderService) updateShares(ctx context.Context, p models.Principal, id string, userIDs []string, apply func(context.Context, string, []string) error) (*models.Folder, error) {
	if len(userIDs) > config.MaxShareBatch {
		return nil, fmt.Errorf("%w: at most %d users per request", domain.ErrValidation, config.MaxShareBatch)
	}

	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, folder, services.OpWrite); err != nil {
		return nil, err
	}

	// Empty list is a no-op
	if len(userIDs) == 0 {
		s.setPath(ctx, folder)
		return folder, nil
	}

	if err := apply(ctx, id, userIDs); err != nil {
		return nil, err
	}

	folder, err = s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setPath(ctx, folder)

	s.logger.Info("folder shares updated",
		"id", id,
		"user_count", len(userIDs),
	)

	return folder, nil
}

// setPath computes the display path, falling back to the bare name
func (s *folderService) setPath(ctx context.Context, folder *models.Folder) {
	path, err := s.folderRepo.GetPath(ctx, folder.ID)
	if err != nil {
		s.logger.Warn("failed to compute path", "folder_id", folder.ID, "error", err)
		folder.Path = folder.Name
		return
	}
	folder.Path = path
}

// ensureNoCycle rejects moves that would put a folder inside its own subtree
func (s *folderService) ensureNoCycle(ctx context.Context, folderID, newParentID string) error {
	currentID := newParentID
	for {
		if currentID == folderID {
			return fmt.Errorf("%w: cannot move a folder into itself or its own subtree", domain.ErrValidation)
		}

		current, err := s.folderRepo.GetByID(ctx, currentID)
		if err != nil {
			return err
		}
		if current.ParentID == nil {
			return nil
		}
		currentID = *current.ParentID
	}
}

func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
	)
}

func (s *folderService) validateUpdateRequest(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.Description == nil && !req.ParentID.Present && req.IsPublic == nil {
		return fmt.Errorf("at least one field must be provided")
	}

	var rules []*validation.FieldRules
	if req.Name != nil {
		rules = append(rules,
			validation.Field(&req.Name,
				validation.Required,
				validation.Length(1, config.MaxFolderNameLength),
				validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
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
