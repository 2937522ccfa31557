package service

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type activityService struct {
	activityRepo repositories.ActivityRepository
	logger       *slog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repositories.ActivityRepository, logger *slog.Logger) services.ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// ListActivities lists audit entries visible to the principal. Administrators
// see everything; everyone else sees activity on documents they own. Shared
// and public read access does not extend to the audit trail.
func (s *activityService) ListActivities(ctx context.Context, p models.Principal, filter repositories.ActivityFilter) ([]models.DocumentActivity, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown activity kind %q", domain.ErrValidation, filter.Kind)
	}

	if p.IsAdmin() {
		return s.activityRepo.ListAll(ctx, filter)
	}
	return s.activityRepo.ListForOwner(ctx, p.ID, filter)
}
