package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// FileKind is the rendering capability of a stored file, computed once at
// ingestion from the filename instead of re-derived at every render.
type FileKind string

const (
	FileKindPDF     FileKind = "PDF"
	FileKindImage   FileKind = "IMAGE"
	FileKindOffice  FileKind = "OFFICE"
	FileKindUnknown FileKind = "UNKNOWN"
)

var imageExtensions = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {}, "svg": {},
}

var officeExtensions = map[string]struct{}{
	"doc": {}, "docx": {}, "ppt": {}, "pptx": {}, "xls": {}, "xlsx": {},
}

// KindForExtension maps a lowercased file extension to its capability tag.
func KindForExtension(ext string) FileKind {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch {
	case ext == "pdf":
		return FileKindPDF
	default:
	}
	if _, ok := imageExtensions[ext]; ok {
		return FileKindImage
	}
	if _, ok := officeExtensions[ext]; ok {
		return FileKindOffice
	}
	return FileKindUnknown
}

// Document is a published repository entry. FileKey points into the documents
// bucket and must be set at creation; CoverKey optionally points into the
// covers bucket.
type Document struct {
	ID           string         `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Description  *string        `db:"description" json:"description,omitempty"`
	CategoryID   string         `db:"category_id" json:"category_id"`
	CategoryName *string        `db:"category_name" json:"category_name,omitempty"`
	AuthorID     *string        `db:"author_id" json:"author_id,omitempty"`
	FileKey      string         `db:"file_key" json:"file_key"`
	FileKind     FileKind       `db:"file_kind" json:"file_kind"`
	CoverKey     *string        `db:"cover_key" json:"cover_key,omitempty"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	Version      int            `db:"version" json:"version"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// DocumentVersion is a history row recorded when a document's file is replaced.
type DocumentVersion struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	Version    int       `db:"version" json:"version"`
	FileKey    string    `db:"file_key" json:"file_key"`
	ChangedBy  *string   `db:"changed_by" json:"changed_by,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// DocumentFilter captures list filtering criteria.
type DocumentFilter struct {
	Search     string
	CategoryID string
	AuthorID   string
	Limit      int
}
