package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/utils"
)

type tagService struct {
	tagRepo repositories.TagRepository
	logger  *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(tagRepo repositories.TagRepository, logger *slog.Logger) services.TagService {
	return &tagService{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// CreateTag creates a tag, deriving its slug from the name
func (s *tagService) CreateTag(ctx context.Context, req *services.TagRequest) (*models.Tag, error) {
	slug, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	tag := &models.Tag{
		Name: req.Name,
		Slug: slug,
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name, "slug", tag.Slug)
	return tag, nil
}

// GetTag retrieves a tag by ID
func (s *tagService) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

// UpdateTag renames a tag, recomputing its slug
func (s *tagService) UpdateTag(ctx context.Context, id string, req *services.TagRequest) (*models.Tag, error) {
	slug, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Slug = slug

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "id", tag.ID, "name", tag.Name, "slug", tag.Slug)
	return tag, nil
}

// DeleteTag deletes a tag; document associations cascade
func (s *tagService) DeleteTag(ctx context.Context, id string) error {
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("tag deleted", "id", id)
	return nil
}

// ListTags lists tags, optionally filtered by a name substring
func (s *tagService) ListTags(ctx context.Context, search string) ([]models.Tag, error) {
	return s.tagRepo.List(ctx, search)
}

// validate checks the request and returns the derived slug
func (s *tagService) validate(req *services.TagRequest) (string, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxTagNameLength),
		),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		return "", fmt.Errorf("%w: tag name must contain letters or digits", domain.ErrValidation)
	}

	return slug, nil
}
