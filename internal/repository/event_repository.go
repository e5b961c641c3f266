package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ispkai/docrepo-api/internal/models"
)

// EventRepository persists download and view events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// RecordDownload inserts one download event.
func (r *EventRepository) RecordDownload(ctx context.Context, event *models.DownloadEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO document_downloads (id, document_id, user_id, created_at)
		VALUES (:id, :document_id, :user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("record download: %w", err)
	}
	return nil
}

// RecordView inserts one view event.
func (r *EventRepository) RecordView(ctx context.Context, event *models.ViewEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO document_views (id, document_id, user_id, viewer_mode, created_at)
		VALUES (:id, :document_id, :user_id, :viewer_mode, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// CountDownloads returns the total number of recorded downloads.
func (r *EventRepository) CountDownloads(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM document_downloads`); err != nil {
		return 0, fmt.Errorf("count downloads: %w", err)
	}
	return total, nil
}

// CountDownloadsForDocument returns download totals for one document.
func (r *EventRepository) CountDownloadsForDocument(ctx context.Context, documentID string) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM document_downloads WHERE document_id = $1`, documentID); err != nil {
		return 0, fmt.Errorf("count downloads for document: %w", err)
	}
	return total, nil
}
