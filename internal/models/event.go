package models

import "time"

// DownloadEvent records a completed download of a document file.
type DownloadEvent struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ViewEvent records a document preview resolution.
type ViewEvent struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	ViewerMode string    `db:"viewer_mode" json:"viewer_mode"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
