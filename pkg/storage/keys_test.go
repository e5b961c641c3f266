package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilenameReplacesSpacesAndStripsUnsafeChars(t *testing.T) {
	assert.Equal(t, "My_Report_final.pdf", SanitizeFilename("My Report (final).pdf"))
	assert.Equal(t, "notas_2024-v2.xlsx", SanitizeFilename("notas 2024-v2.xlsx"))
	assert.Equal(t, "plain.pdf", SanitizeFilename("plain.pdf"))
	assert.Equal(t, "a_b.txt", SanitizeFilename("a b.txt"))
	assert.Equal(t, "", SanitizeFilename("???"))
}

func TestDocumentKeyLayout(t *testing.T) {
	now := time.UnixMilli(1714000000123)
	key := DocumentKey("u1", "My Report (final).pdf", now)
	assert.Regexp(t, regexp.MustCompile(`^u1/\d+-My_Report_final\.pdf$`), key)
	assert.Equal(t, "u1/1714000000123-My_Report_final.pdf", key)
}

func TestDocumentKeyUnknownOwner(t *testing.T) {
	now := time.UnixMilli(99)
	assert.Equal(t, "unknown/99-a.pdf", DocumentKey("", "a.pdf", now))
	assert.Equal(t, "unknown/99-a.pdf", DocumentKey("  ", "a.pdf", now))
}

func TestCoverKeyLayout(t *testing.T) {
	now := time.UnixMilli(1714000000123)
	key := CoverKey("u1", "capa frontal.png", now)
	assert.Equal(t, "u1/covers/1714000000123-capa_frontal.png", key)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("u1/123-doc.PDF"))
	assert.Equal(t, "docx", Extension("report.docx"))
	assert.Equal(t, "", Extension("no-extension"))
	assert.Equal(t, "", Extension("trailing-dot."))
}
