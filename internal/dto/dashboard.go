package dto

import "github.com/ispkai/docrepo-api/internal/models"

// AdminOverviewResponse aggregates the stat cards and the recent-documents
// table shown on the admin dashboard.
type AdminOverviewResponse struct {
	TotalDocuments  int               `json:"total_documents"`
	RecentDocuments int               `json:"recent_documents"`
	TotalCategories int               `json:"total_categories"`
	TotalUsers      int               `json:"total_users"`
	TotalDownloads  int               `json:"total_downloads"`
	LatestDocuments []models.Document `json:"latest_documents"`
}

// EditorOverviewResponse summarises the signed-in editor's own documents.
type EditorOverviewResponse struct {
	OwnDocuments    int               `json:"own_documents"`
	LatestDocuments []models.Document `json:"latest_documents"`
}
