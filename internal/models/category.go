package models

import "time"

// Category groups documents for browsing. Deletion is refused while any
// document still references the category.
type Category struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// DocumentCount is populated by list queries, not stored.
	DocumentCount int `db:"document_count" json:"document_count"`
}
