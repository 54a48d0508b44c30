package blobstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSaveClassifiesNamespace(t *testing.T) {
	s := New()

	inputPath, err := s.Save("report.pdf", []byte("pdf bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "uploads/report.pdf", inputPath)

	resultPath, err := s.Save("170000-form.docx", []byte("docx bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "results/170000-form.docx", resultPath)
}

func TestStoreSaveNeverOverwrites(t *testing.T) {
	s := New()

	_, err := s.Save("report.pdf", []byte("first"))
	assert.NoError(t, err)

	_, err = s.Save("report.pdf", []byte("second"))
	assert.ErrorIs(t, err, ErrExists)

	data, err := s.Get("uploads/report.pdf")
	assert.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
}

func TestStoreGetResolvesAliases(t *testing.T) {
	s := New()
	content := []byte("filled form bytes")

	p, err := s.Save("170000-form.docx", content)
	assert.NoError(t, err)
	assert.Equal(t, "results/170000-form.docx", p)

	for _, alias := range []string{
		"results/170000-form.docx",
		"filled-forms/170000-form.docx",
		"virtual-results/170000-form.docx",
		"170000-form.docx",
	} {
		data, err := s.Get(alias)
		assert.NoError(t, err, "alias %s", alias)
		assert.Equal(t, content, data, "alias %s", alias)
	}
}

func TestStoreGetByBasename(t *testing.T) {
	s := New()
	_, err := s.Save("notes.txt", []byte("plain text"))
	assert.NoError(t, err)

	// A path with a stale prefix still resolves through the basename.
	data, err := s.Get("old-prefix/notes.txt")
	assert.NoError(t, err)
	assert.Equal(t, []byte("plain text"), data)
}

func TestStoreGetMissing(t *testing.T) {
	s := New()

	_, err := s.Get("uploads/absent.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRemoveIsIdempotent(t *testing.T) {
	s := New()
	p, err := s.Save("report.pdf", []byte("bytes"))
	assert.NoError(t, err)

	s.Remove(p)
	_, err = s.Get(p)
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing again is not an error.
	s.Remove(p)
	assert.Equal(t, 0, s.Len())
}

func TestStoreRemoveAcceptsAliases(t *testing.T) {
	s := New()
	_, err := s.Save("170000-form.docx", []byte("bytes"))
	assert.NoError(t, err)

	s.Remove("filled-forms/170000-form.docx")
	assert.Equal(t, 0, s.Len())
}

func TestStorePathsAreCanonicalAndStable(t *testing.T) {
	s := New()
	_, _ = s.Save("a.pdf", []byte("a"))
	_, _ = s.Save("b-form.docx", []byte("b"))
	_, _ = s.Save("c.txt", []byte("c"))

	want := []string{"uploads/a.pdf", "results/b-form.docx", "uploads/c.txt"}
	assert.Equal(t, want, s.Paths())
	// Listing twice without mutation returns the same order.
	assert.Equal(t, want, s.Paths())
}

func TestStoreClear(t *testing.T) {
	s := New()
	_, _ = s.Save("a.pdf", []byte("a"))
	_, _ = s.Save("b-form.docx", []byte("b"))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Paths())

	// Clearing an already empty store is fine.
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStoreStat(t *testing.T) {
	s := New()
	_, err := s.Save("report.pdf", []byte("12345"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := s.Stat("uploads/report.pdf")
	assert.NoError(t, err)
	assert.Equal(t, "uploads/report.pdf", info.Path)
	assert.Equal(t, "report.pdf", info.Name)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.SavedAt.IsZero())
}

func TestStoreSaveInForcesNamespace(t *testing.T) {
	s := New()

	// A result whose name matches no output convention still lands in the
	// results namespace when stored through the write-back path.
	p, err := s.SaveIn(NamespaceResults, "plain-output.docx", []byte("bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "results/plain-output.docx", p)

	_, err = s.SaveIn(NamespaceInput, "", []byte("bytes"))
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	assert.False(t, errors.Is(err, ErrExists))
}
