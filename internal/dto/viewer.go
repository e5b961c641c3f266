package dto

import "time"

// ViewerMode is the rendering strategy resolved for a document file.
type ViewerMode string

const (
	ViewerModePDFEmbed     ViewerMode = "PDF_EMBED"
	ViewerModeImageInline  ViewerMode = "IMAGE_INLINE"
	ViewerModeDownloadOnly ViewerMode = "DOWNLOAD_ONLY"
	ViewerModeUnsupported  ViewerMode = "UNSUPPORTED"
	ViewerModeNone         ViewerMode = "NONE"
)

// ViewerResolution tells the client how to render a document. URL is empty
// for the NONE mode; every other mode carries a signed URL usable at least
// for download.
type ViewerResolution struct {
	DocumentID string     `json:"document_id"`
	Mode       ViewerMode `json:"mode"`
	Extension  string     `json:"extension,omitempty"`
	URL        string     `json:"url,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at,omitempty"`
}
