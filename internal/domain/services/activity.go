package services

import (
	"context"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// ActivityService exposes the audit trail. Activities are visible only to
// the owner of the referenced document, or to administrators; shared and
// public visibility does not extend to audit logs.
type ActivityService interface {
	// ListActivities lists activity entries visible to the principal
	ListActivities(ctx context.Context, p models.Principal, filter repositories.ActivityFilter) ([]models.DocumentActivity, error)
}

// ActivityPublisher broadcasts activity entries to interested consumers
// (e.g. a message bus). Publishing is best-effort; the database row is the
// source of truth.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity *models.DocumentActivity) error
}
