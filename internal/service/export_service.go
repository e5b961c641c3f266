package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/export"
)

// ReportFormat selects the rendered catalog format.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ParseReportFormat validates a raw format string.
func ParseReportFormat(raw string) (ReportFormat, bool) {
	switch ReportFormat(strings.ToLower(raw)) {
	case ReportFormatCSV:
		return ReportFormatCSV, true
	case ReportFormatPDF:
		return ReportFormatPDF, true
	default:
		return "", false
	}
}

type catalogLister interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ReportFile is a rendered catalog ready to stream to the client.
type ReportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the document catalog as CSV or PDF.
type ExportService struct {
	documents catalogLister
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(documents catalogLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{documents: documents, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Catalog renders the filtered document list in the requested format.
func (s *ExportService) Catalog(ctx context.Context, filter models.DocumentFilter, format ReportFormat) (*ReportFile, error) {
	documents, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}

	dataset := buildCatalogDataset(documents)

	var payload []byte
	var contentType, ext string
	switch format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
		ext = "csv"
	case ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Document Catalog")
		contentType = "application/pdf"
		ext = "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render catalog")
	}

	filename := fmt.Sprintf("catalog-%s.%s", s.now().UTC().Format("20060102-150405"), ext)
	return &ReportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildCatalogDataset(documents []models.Document) export.Dataset {
	rows := make([]map[string]string, 0, len(documents))
	for _, document := range documents {
		category := ""
		if document.CategoryName != nil {
			category = *document.CategoryName
		}
		rows = append(rows, map[string]string{
			"ID":       document.ID,
			"Title":    document.Title,
			"Category": category,
			"Kind":     string(document.FileKind),
			"Tags":     strings.Join(document.Tags, ", "),
			"Version":  fmt.Sprintf("%d", document.Version),
			"Created":  document.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{
		Headers: []string{"ID", "Title", "Category", "Kind", "Tags", "Version", "Created"},
		Rows:    rows,
	}
}
