package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ispkai/docrepo-api/internal/models"
)

type catalogListerStub struct {
	documents []models.Document
}

func (s *catalogListerStub) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	return s.documents, nil
}

func TestExportCatalogCSV(t *testing.T) {
	category := "Biology"
	svc := NewExportService(&catalogListerStub{documents: []models.Document{
		{ID: "d1", Title: "Genetics Primer", CategoryName: &category, FileKind: models.FileKindPDF, Tags: []string{"genetics", "cells"}, Version: 2},
	}}, nil, nil, nil)

	file, err := svc.Catalog(context.Background(), models.DocumentFilter{}, ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Payload)
	assert.Contains(t, body, "Genetics Primer")
	assert.Contains(t, body, "Biology")
	assert.Contains(t, body, "genetics, cells")
}

func TestExportCatalogPDF(t *testing.T) {
	svc := NewExportService(&catalogListerStub{documents: []models.Document{
		{ID: "d1", Title: "Doc", FileKind: models.FileKindPDF},
	}}, nil, nil, nil)

	file, err := svc.Catalog(context.Background(), models.DocumentFilter{}, ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.NotEmpty(t, file.Payload)
}

func TestExportCatalogUnknownFormat(t *testing.T) {
	svc := NewExportService(&catalogListerStub{}, nil, nil, nil)

	_, err := svc.Catalog(context.Background(), models.DocumentFilter{}, ReportFormat("xml"))
	require.Error(t, err)
}

func TestParseReportFormat(t *testing.T) {
	format, ok := ParseReportFormat("CSV")
	assert.True(t, ok)
	assert.Equal(t, ReportFormatCSV, format)

	_, ok = ParseReportFormat("docx")
	assert.False(t, ok)
}
