package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ispkai/docrepo-api/internal/models"
)

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "category_id", "category_name",
		"author_id", "file_key", "file_kind", "cover_key", "tags", "version", "created_at", "updated_at",
	})
}

func TestListDocumentsNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now()
	rows := documentRows().
		AddRow("d2", "Newer", nil, "c1", "Biology", "u1", "u1/2-newer.pdf", string(models.FileKindPDF), nil, pq.StringArray{"cells"}, 1, now, now).
		AddRow("d1", "Older", nil, "c1", "Biology", "u1", "u1/1-older.pdf", string(models.FileKindPDF), nil, pq.StringArray{}, 1, now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT d.id, d.title").WillReturnRows(rows)

	documents, err := repo.List(context.Background(), models.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "Newer", documents[0].Title)
	require.NotNil(t, documents[0].CategoryName)
	assert.Equal(t, "Biology", *documents[0].CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDocumentsWithSearch(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	now := time.Now()
	rows := documentRows().
		AddRow("d1", "Genetics Primer", nil, "c1", "Biology", "u1", "u1/1-g.pdf", string(models.FileKindPDF), nil, pq.StringArray{"genetics"}, 1, now, now)
	mock.ExpectQuery("SELECT d.id, d.title").
		WithArgs("%genetics%").
		WillReturnRows(rows)

	documents, err := repo.List(context.Background(), models.DocumentFilter{Search: "genetics"})
	require.NoError(t, err)
	assert.Len(t, documents, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDocumentByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectQuery("SELECT d.id, d.title").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDocumentDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("INSERT INTO documents").WillReturnResult(sqlmock.NewResult(1, 1))

	author := "u1"
	document := &models.Document{
		Title:      "Thesis",
		CategoryID: "c1",
		AuthorID:   &author,
		FileKey:    "u1/1-thesis.pdf",
		FileKind:   models.FileKindPDF,
	}
	err := repo.Create(context.Background(), document)
	require.NoError(t, err)
	assert.NotEmpty(t, document.ID)
	assert.Equal(t, 1, document.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDocumentMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	mock.ExpectExec("UPDATE documents").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Document{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSince(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentRepository(db)

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountSince(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
