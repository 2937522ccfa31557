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

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, title, description, object_key, file_type, file_size, folder_id, owner_id, is_public, version, created_at, updated_at`

func scanDocument(row interface{ Scan(...interface{}) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.ObjectKey,
		&doc.FileType,
		&doc.FileSize,
		&doc.FolderID,
		&doc.OwnerID,
		&doc.IsPublic,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, object_key, file_type, file_size, folder_id, owner_id, is_public, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Description,
		doc.ObjectKey,
		doc.FileType,
		doc.FileSize,
		doc.FolderID,
		doc.OwnerID,
		doc.IsPublic,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID with tags and shared users loaded
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	if err := r.loadTags(ctx, []*models.Document{&doc}); err != nil {
		return nil, err
	}

	shared, err := r.sharedUserIDs(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.SharedUserIDs = shared

	return &doc, nil
}

// Update updates a document's mutable fields
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, object_key = $3, file_type = $4,
		    file_size = $5, folder_id = $6, is_public = $7, version = $8, updated_at = $9
		WHERE id = $10
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Description,
		doc.ObjectKey,
		doc.FileType,
		doc.FileSize,
		doc.FolderID,
		doc.IsPublic,
		doc.Version,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a document. Versions, comments, shares and tag links
// cascade; activity rows keep a NULL document reference.
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListVisible lists documents owned by, shared with, or public to the
// user, newest modified first.
func (r *PostgresDocumentRepository) ListVisible(ctx context.Context, userID string, filter repositories.DocumentFilter) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT d.id, d.title, d.description, d.object_key, d.file_type, d.file_size,
		       d.folder_id, d.owner_id, d.is_public, d.version, d.created_at, d.updated_at
		FROM %s d
		LEFT JOIN %s s ON s.document_id = d.id
	`, r.tables.Documents, r.tables.DocumentShares)

	args := []interface{}{userID}

	if filter.TagID != nil {
		query += fmt.Sprintf(` JOIN %s dt ON dt.document_id = d.id AND dt.tag_id = $%d`, r.tables.DocumentTags, len(args)+1)
		args = append(args, *filter.TagID)
	}

	query += ` WHERE (d.owner_id = $1 OR d.is_public OR s.user_id = $1)`

	if filter.FolderID != nil {
		query += fmt.Sprintf(` AND d.folder_id = $%d`, len(args)+1)
		args = append(args, *filter.FolderID)
	}

	if filter.Search != "" {
		query += fmt.Sprintf(` AND (d.title ILIKE '%%' || $%d || '%%' OR d.description ILIKE '%%' || $%d || '%%')`, len(args)+1, len(args)+1)
		args = append(args, filter.Search)
	}

	query += ` ORDER BY d.updated_at DESC`

	return r.queryDocuments(ctx, query, args...)
}

// ListByFolder lists documents in a folder
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, folderID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE folder_id = $1
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, folderID)
}

// SetTags replaces the document's tag set
func (r *PostgresDocumentRepository) SetTags(ctx context.Context, documentID string, tagIDs []string) error {
	executor := GetExecutor(ctx, r.pool)

	clear := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.DocumentTags)
	if _, err := executor.Exec(ctx, clear, documentID); err != nil {
		return fmt.Errorf("clear document tags: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (document_id, tag_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING
	`, r.tables.DocumentTags)

	if _, err := executor.Exec(ctx, insert, documentID, tagIDs); err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("unknown tag: %w", domain.ErrValidation)
		}
		return fmt.Errorf("set document tags: %w", err)
	}

	return nil
}

// AddSharedUsers adds user IDs to the document's shared set
func (r *PostgresDocumentRepository) AddSharedUsers(ctx context.Context, documentID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, user_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING
	`, r.tables.DocumentShares)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID, userIDs); err != nil {
		return fmt.Errorf("share document: %w", err)
	}

	return nil
}

// RemoveSharedUsers removes user IDs from the document's shared set
func (r *PostgresDocumentRepository) RemoveSharedUsers(ctx context.Context, documentID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1 AND user_id = ANY($2::text[])
	`, r.tables.DocumentShares)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID, userIDs); err != nil {
		return fmt.Errorf("unshare document: %w", err)
	}

	return nil
}

func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	refs := make([]*models.Document, len(docs))
	for i := range docs {
		refs[i] = &docs[i]
	}
	if err := r.loadTags(ctx, refs); err != nil {
		return nil, err
	}

	return docs, nil
}

// loadTags fills the Tags slice for the given documents in one query
func (r *PostgresDocumentRepository) loadTags(ctx context.Context, docs []*models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, len(docs))
	byID := make(map[string]*models.Document, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		byID[doc.ID] = doc
	}

	query := fmt.Sprintf(`
		SELECT dt.document_id, t.id, t.name, t.slug
		FROM %s dt
		JOIN %s t ON t.id = dt.tag_id
		WHERE dt.document_id = ANY($1::text[])
		ORDER BY t.name ASC
	`, r.tables.DocumentTags, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load document tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID string
		var tag models.Tag
		if err := rows.Scan(&docID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("scan document tag: %w", err)
		}
		if doc := byID[docID]; doc != nil {
			doc.Tags = append(doc.Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate document tags: %w", err)
	}

	return nil
}

func (r *PostgresDocumentRepository) sharedUserIDs(ctx context.Context, documentID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT user_id FROM %s WHERE document_id = $1 ORDER BY user_id
	`, r.tables.DocumentShares)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list document shares: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan document share: %w", err)
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document shares: %w", err)
	}

	return userIDs, nil
}
