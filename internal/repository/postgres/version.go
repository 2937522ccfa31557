package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const versionColumns = `id, document_id, object_key, file_size, version, created_by, created_at, comment`

func scanVersion(row interface{ Scan(...interface{}) error }, v *models.DocumentVersion) error {
	return row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.ObjectKey,
		&v.FileSize,
		&v.Version,
		&v.CreatedBy,
		&v.CreatedAt,
		&v.Comment,
	)
}

// Create persists a new version snapshot. The unique (document_id, version)
// constraint guarantees numbers are never reused.
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, object_key, file_size, version, created_by, created_at, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.DocumentID,
		version.ObjectKey,
		version.FileSize,
		version.Version,
		version.CreatedBy,
		version.CreatedAt,
		version.Comment,
	).Scan(&version.ID, &version.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d of document %s already exists", version.Version, version.DocumentID),
				ResourceType: "version",
			}
		}
		return fmt.Errorf("create document version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by ID
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, versionColumns, r.tables.Versions)

	var version models.DocumentVersion
	executor := GetExecutor(ctx, r.pool)
	if err := scanVersion(executor.QueryRow(ctx, query, id), &version); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document version: %w", err)
	}

	return &version, nil
}

// ListByDocument lists a document's versions, newest first
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE document_id = $1
		ORDER BY version DESC
	`, versionColumns, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document versions: %w", err)
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var version models.DocumentVersion
		if err := scanVersion(rows, &version); err != nil {
			return nil, fmt.Errorf("scan document version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document versions: %w", err)
	}

	return versions, nil
}
