package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type documentRepoStub struct {
	items     map[string]models.Document
	versions  []models.DocumentVersion
	deleteErr error
}

func (s *documentRepoStub) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	result := []models.Document{}
	for _, document := range s.items {
		result = append(result, document)
	}
	return result, nil
}

func (s *documentRepoStub) FindByID(ctx context.Context, id string) (*models.Document, error) {
	if document, ok := s.items[id]; ok {
		return &document, nil
	}
	return nil, sql.ErrNoRows
}

func (s *documentRepoStub) Create(ctx context.Context, document *models.Document) error {
	if s.items == nil {
		s.items = make(map[string]models.Document)
	}
	if document.ID == "" {
		document.ID = "generated"
	}
	s.items[document.ID] = *document
	return nil
}

func (s *documentRepoStub) Update(ctx context.Context, document *models.Document) error {
	if _, ok := s.items[document.ID]; !ok {
		return sql.ErrNoRows
	}
	s.items[document.ID] = *document
	return nil
}

func (s *documentRepoStub) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

func (s *documentRepoStub) CreateVersion(ctx context.Context, version *models.DocumentVersion) error {
	s.versions = append(s.versions, *version)
	return nil
}

func (s *documentRepoStub) ListVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error) {
	return s.versions, nil
}

type categoryFinderStub struct {
	known map[string]bool
}

func (s *categoryFinderStub) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if s.known[id] {
		return &models.Category{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type objectStoreStub struct {
	removeErr map[string]error
	removed   []string
	signCalls int
}

func (s *objectStoreStub) Remove(ctx context.Context, bucket, key string) error {
	if err := s.removeErr[key]; err != nil {
		return err
	}
	s.removed = append(s.removed, bucket+"/"+key)
	return nil
}

func (s *objectStoreStub) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.signCalls++
	return "https://signed.example/" + bucket + "/" + key, nil
}

func (s *objectStoreStub) DocumentsBucket() string { return "documents" }
func (s *objectStoreStub) CoversBucket() string    { return "covers" }

func newDocumentService(repo *documentRepoStub, store *objectStoreStub, known map[string]bool) *DocumentService {
	return NewDocumentService(repo, &categoryFinderStub{known: known}, store, nil, nil, nil, 30*time.Minute)
}

func TestDocumentServiceCreateComputesKind(t *testing.T) {
	repo := &documentRepoStub{}
	svc := newDocumentService(repo, &objectStoreStub{}, map[string]bool{"c1": true})

	document, err := svc.Create(context.Background(), "u1", dto.CreateDocumentRequest{
		Title:      "Thesis",
		CategoryID: "c1",
		FileKey:    "u1/1700000000000-thesis.PDF",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FileKindPDF, document.FileKind)
	require.NotNil(t, document.AuthorID)
	assert.Equal(t, "u1", *document.AuthorID)
	assert.Equal(t, 1, document.Version)
}

func TestDocumentServiceCreateUnknownCategory(t *testing.T) {
	svc := newDocumentService(&documentRepoStub{}, &objectStoreStub{}, map[string]bool{})

	_, err := svc.Create(context.Background(), "u1", dto.CreateDocumentRequest{
		Title:      "Thesis",
		CategoryID: "missing",
		FileKey:    "u1/1-thesis.pdf",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDocumentServiceUpdateFileBumpsVersion(t *testing.T) {
	repo := &documentRepoStub{items: map[string]models.Document{
		"d1": {ID: "d1", Title: "Doc", CategoryID: "c1", FileKey: "u1/1-old.pdf", FileKind: models.FileKindPDF, Version: 1},
	}}
	svc := newDocumentService(repo, &objectStoreStub{}, map[string]bool{"c1": true})

	newKey := "u1/2-new.docx"
	updated, err := svc.Update(context.Background(), "d1", "u1", dto.UpdateDocumentRequest{FileKey: &newKey})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, models.FileKindOffice, updated.FileKind)
	require.Len(t, repo.versions, 1)
	assert.Equal(t, "u1/1-old.pdf", repo.versions[0].FileKey)
	assert.Equal(t, 1, repo.versions[0].Version)
}

func TestDocumentServiceDeleteReportsSteps(t *testing.T) {
	cover := "u1/covers/1-cover.png"
	repo := &documentRepoStub{items: map[string]models.Document{
		"d1": {ID: "d1", FileKey: "u1/1-doc.pdf", CoverKey: &cover},
	}}
	store := &objectStoreStub{}
	svc := newDocumentService(repo, store, nil)

	result, err := svc.Delete(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, dto.DeletionStatusDeleted, result.Steps[0].Status)
	assert.Equal(t, dto.DeletionStatusDeleted, result.Steps[1].Status)
	assert.Equal(t, dto.DeletionStatusDeleted, result.Steps[2].Status)
	assert.Contains(t, store.removed, "documents/u1/1-doc.pdf")
	assert.Contains(t, store.removed, "covers/"+cover)
}

func TestDocumentServiceDeleteFileFailureStillDeletesRecord(t *testing.T) {
	repo := &documentRepoStub{items: map[string]models.Document{
		"d1": {ID: "d1", FileKey: "u1/1-doc.pdf"},
	}}
	store := &objectStoreStub{removeErr: map[string]error{"u1/1-doc.pdf": errors.New("gone")}}
	svc := newDocumentService(repo, store, nil)

	result, err := svc.Delete(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, dto.DeletionStatusFailed, result.Steps[0].Status)
	assert.NotEmpty(t, result.Steps[0].Error)
	assert.Equal(t, dto.DeletionStatusSkipped, result.Steps[1].Status)
	assert.Equal(t, dto.DeletionStatusDeleted, result.Steps[2].Status)
	assert.NotContains(t, repo.items, "d1")
}

func TestDocumentServiceDeleteMissing(t *testing.T) {
	svc := newDocumentService(&documentRepoStub{}, &objectStoreStub{}, nil)

	_, err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDocumentServiceSignedURL(t *testing.T) {
	repo := &documentRepoStub{items: map[string]models.Document{
		"d1": {ID: "d1", FileKey: "u1/1-doc.pdf"},
	}}
	store := &objectStoreStub{}
	svc := newDocumentService(repo, store, nil)

	resp, err := svc.SignedURL(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/documents/u1/1-doc.pdf", resp.URL)
	assert.Equal(t, 1, store.signCalls)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), resp.ExpiresAt, 5*time.Second)
}
