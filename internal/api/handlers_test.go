// handlers_test.go - Shared fixtures for handler tests
package api

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/lifecycle"
	"github.com/shenjiekoh/DocumentPortal/internal/models"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
	"github.com/shenjiekoh/DocumentPortal/internal/sweeper"
	"github.com/shenjiekoh/DocumentPortal/internal/testutil"
	"github.com/shenjiekoh/DocumentPortal/internal/virtual"
)

// testEnv wires real in-memory components the way the composition root does.
type testEnv struct {
	store *blobstore.Store
	reg   *registry.Registry
	lc    *lifecycle.Lifecycle
	mux   *virtual.Multiplexer
	sw    *sweeper.Sweeper
}

func newTestEnv() *testEnv {
	store := blobstore.New()
	reg := registry.New(store)
	return &testEnv{
		store: store,
		reg:   reg,
		lc:    lifecycle.New(reg),
		mux:   virtual.New(store),
		sw:    sweeper.New(store, reg),
	}
}

// addDocument stores a blob and registers a pending document over it.
func (env *testEnv) addDocument(t *testing.T, name, mimeType string, data []byte) *models.Document {
	t.Helper()

	blobPath, err := env.store.Save(name, data)
	if err != nil {
		t.Fatalf("saving blob: %v", err)
	}
	doc, err := env.reg.Create(&models.Document{
		Name:         name,
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Path:         blobPath,
	})
	if err != nil {
		t.Fatalf("creating document: %v", err)
	}
	return doc
}

// addResultBlob stores a bare blob in the results namespace, simulating
// transformer output that bypassed the registry.
func (env *testEnv) addResultBlob(t *testing.T, name string, data []byte) string {
	t.Helper()

	p, err := env.store.SaveIn(blobstore.NamespaceResults, name, data)
	if err != nil {
		t.Fatalf("saving result blob: %v", err)
	}
	return p
}

// newMultipartContext builds an upload request context for the given file.
func newMultipartContext(t *testing.T, e *echo.Echo, filename, contentType string, data []byte) echo.Context {
	t.Helper()

	req := testutil.NewMultipartRequest(t, "/api/documents", "file", filename, contentType, data)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}
