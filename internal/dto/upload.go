package dto

// UploadResult returns the storage coordinates of an ingested file. The key
// is what a subsequent document create/update call references.
type UploadResult struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
