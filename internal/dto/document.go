package dto

import "time"

// CreateDocumentRequest carries document metadata. FileKey must reference an
// object already uploaded through the ingress endpoint.
type CreateDocumentRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description,omitempty"`
	CategoryID  string   `json:"category_id" validate:"required"`
	FileKey     string   `json:"file_key" validate:"required"`
	CoverKey    *string  `json:"cover_key,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateDocumentRequest patches document metadata. A non-nil FileKey replaces
// the stored file reference; the caller uploads the new object first.
type UpdateDocumentRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	FileKey     *string  `json:"file_key,omitempty"`
	CoverKey    *string  `json:"cover_key,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Deletion step targets and outcomes.
const (
	DeletionTargetFile   = "file"
	DeletionTargetCover  = "cover"
	DeletionTargetRecord = "record"

	DeletionStatusDeleted = "DELETED"
	DeletionStatusFailed  = "FAILED"
	DeletionStatusSkipped = "SKIPPED"
)

// DeletionStep reports the outcome of one sub-step of a document deletion.
type DeletionStep struct {
	Target string `json:"target"`
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DocumentDeletionResult enumerates every sub-step of a best-effort deletion
// instead of hiding partial failures in logs.
type DocumentDeletionResult struct {
	DocumentID string         `json:"document_id"`
	Deleted    bool           `json:"deleted"`
	Steps      []DeletionStep `json:"steps"`
}

// SignedURLResponse wraps a time-limited object URL.
type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
