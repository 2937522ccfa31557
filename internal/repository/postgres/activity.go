package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresActivityRepository implements the ActivityRepository interface.
// The activity table is append-only; there are no update or delete paths.
type PostgresActivityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(config *RepositoryConfig) repositories.ActivityRepository {
	return &PostgresActivityRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create appends an activity entry
func (r *PostgresActivityRepository) Create(ctx context.Context, activity *models.DocumentActivity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, user_id, kind, description, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Activities)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		activity.DocumentID,
		activity.UserID,
		activity.Kind,
		activity.Description,
		activity.IPAddress,
		activity.CreatedAt,
	).Scan(&activity.ID, &activity.CreatedAt)

	if err != nil {
		return fmt.Errorf("create document activity: %w", err)
	}

	return nil
}

// ListForOwner lists activities on documents owned by ownerID, newest first.
// Entries whose document was deleted are excluded here because the owner
// link is gone with the document; administrators see them via ListAll.
func (r *PostgresActivityRepository) ListForOwner(ctx context.Context, ownerID string, filter repositories.ActivityFilter) ([]models.DocumentActivity, error) {
	query := fmt.Sprintf(`
		SELECT a.id, a.document_id, a.user_id, a.kind, a.description, a.ip_address, a.created_at
		FROM %s a
		JOIN %s d ON d.id = a.document_id
		WHERE d.owner_id = $1
	`, r.tables.Activities, r.tables.Documents)

	args := []interface{}{ownerID}
	query, args = appendActivityFilter(query, args, filter)
	query += ` ORDER BY a.created_at DESC`

	return r.queryActivities(ctx, query, args...)
}

// ListAll lists all activities, newest first (administrators only)
func (r *PostgresActivityRepository) ListAll(ctx context.Context, filter repositories.ActivityFilter) ([]models.DocumentActivity, error) {
	query := fmt.Sprintf(`
		SELECT a.id, a.document_id, a.user_id, a.kind, a.description, a.ip_address, a.created_at
		FROM %s a
		WHERE TRUE
	`, r.tables.Activities)

	var args []interface{}
	query, args = appendActivityFilter(query, args, filter)
	query += ` ORDER BY a.created_at DESC`

	return r.queryActivities(ctx, query, args...)
}

func appendActivityFilter(query string, args []interface{}, filter repositories.ActivityFilter) (string, []interface{}) {
	if filter.Kind != "" {
		query += fmt.Sprintf(` AND a.kind = $%d`, len(args)+1)
		args = append(args, filter.Kind)
	}
	if filter.DocumentID != nil {
		query += fmt.Sprintf(` AND a.document_id = $%d`, len(args)+1)
		args = append(args, *filter.DocumentID)
	}
	return query, args
}

func (r *PostgresActivityRepository) queryActivities(ctx context.Context, query string, args ...interface{}) ([]models.DocumentActivity, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []models.DocumentActivity
	for rows.Next() {
		var activity models.DocumentActivity
		err := rows.Scan(
			&activity.ID,
			&activity.DocumentID,
			&activity.UserID,
			&activity.Kind,
			&activity.Description,
			&activity.IPAddress,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return activities, nil
}
