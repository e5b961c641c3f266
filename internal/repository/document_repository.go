package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ispkai/docrepo-api/internal/models"
)

// DocumentRepository provides database access for documents and their
// version history.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new instance of DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `d.id, d.title, d.description, d.category_id, c.name AS category_name,
	d.author_id, d.file_key, d.file_kind, d.cover_key, d.tags, d.version, d.created_at, d.updated_at`

// List returns documents joined with their category name, newest first.
// The filter narrows by category, author and a case-insensitive search
// over title, description, category name and tags.
func (r *DocumentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents d LEFT JOIN categories c ON c.id = d.category_id`, documentColumns)

	var conditions []string
	var args []interface{}
	idx := 1

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("d.category_id = $%d", idx))
		args = append(args, filter.CategoryID)
		idx++
	}
	if filter.AuthorID != "" {
		conditions = append(conditions, fmt.Sprintf("d.author_id = $%d", idx))
		args = append(args, filter.AuthorID)
		idx++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(d.title ILIKE $%d OR d.description ILIKE $%d OR c.name ILIKE $%d OR EXISTS (
				SELECT 1 FROM unnest(d.tags) AS t WHERE t ILIKE $%d))`, idx, idx, idx, idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY d.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", idx)
		args = append(args, filter.Limit)
	}

	var documents []models.Document
	if err := r.db.SelectContext(ctx, &documents, query, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return documents, nil
}

// FindByID returns a document by identifier with its category name.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents d LEFT JOIN categories c ON c.id = d.category_id WHERE d.id = $1 LIMIT 1`, documentColumns)
	var document models.Document
	if err := r.db.GetContext(ctx, &document, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return &document, nil
}

// Create inserts a new document and fills generated fields.
func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	if document.ID == "" {
		document.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	document.CreatedAt = now
	document.UpdatedAt = now
	if document.Version == 0 {
		document.Version = 1
	}

	const query = `INSERT INTO documents (id, title, description, category_id, author_id, file_key, file_kind, cover_key, tags, version, created_at, updated_at)
		VALUES (:id, :title, :description, :category_id, :author_id, :file_key, :file_kind, :cover_key, :tags, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, document); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a document.
func (r *DocumentRepository) Update(ctx context.Context, document *models.Document) error {
	document.UpdatedAt = time.Now().UTC()
	const query = `UPDATE documents SET title = :title, description = :description, category_id = :category_id,
		file_key = :file_key, file_kind = :file_kind, cover_key = :cover_key, tags = :tags,
		version = :version, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, document)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document row.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountAll returns the total number of documents.
func (r *DocumentRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return total, nil
}

// CountSince returns the number of documents created at or after the cutoff.
func (r *DocumentRepository) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents WHERE created_at >= $1`, cutoff); err != nil {
		return 0, fmt.Errorf("count documents since: %w", err)
	}
	return total, nil
}

// CountByAuthor returns the number of documents owned by an author.
func (r *DocumentRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents WHERE author_id = $1`, authorID); err != nil {
		return 0, fmt.Errorf("count documents by author: %w", err)
	}
	return total, nil
}

// ListRecent returns the newest documents limited to the given count.
func (r *DocumentRepository) ListRecent(ctx context.Context, limit int) ([]models.Document, error) {
	return r.List(ctx, models.DocumentFilter{Limit: limit})
}

// ListRecentByAuthor returns the newest documents of one author.
func (r *DocumentRepository) ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]models.Document, error) {
	return r.List(ctx, models.DocumentFilter{AuthorID: authorID, Limit: limit})
}

// AllFileKeys returns every file, cover and archived version key referenced
// by the database. Used by the orphan scan.
func (r *DocumentRepository) AllFileKeys(ctx context.Context) ([]string, error) {
	var keys []string
	const query = `SELECT file_key FROM documents
		UNION SELECT cover_key FROM documents WHERE cover_key IS NOT NULL
		UNION SELECT file_key FROM document_versions`
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("list document file keys: %w", err)
	}
	return keys, nil
}

// CreateVersion appends a row to the version history of a document.
func (r *DocumentRepository) CreateVersion(ctx context.Context, version *models.DocumentVersion) error {
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO document_versions (id, document_id, version, file_key, changed_by, notes, created_at)
		VALUES (:id, :document_id, :version, :file_key, :changed_by, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, version); err != nil {
		return fmt.Errorf("create document version: %w", err)
	}
	return nil
}

// ListVersions returns the version history of a document, newest first.
func (r *DocumentRepository) ListVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	const query = `SELECT id, document_id, version, file_key, changed_by, notes, created_at
		FROM document_versions WHERE document_id = $1 ORDER BY version DESC`
	var versions []models.DocumentVersion
	if err := r.db.SelectContext(ctx, &versions, query, documentID); err != nil {
		return nil, fmt.Errorf("list document versions: %w", err)
	}
	return versions, nil
}
