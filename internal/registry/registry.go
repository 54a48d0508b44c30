// Package registry holds the authoritative metadata table for uploaded
// documents. Ids are assigned monotonically for the process lifetime;
// synthetic documents derived from bare blobs use disjoint high id bands
// and never appear here.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// FieldError reports a schema validation failure for a single field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed for field: %s", e.Field)
}

// BlobRemover is the piece of the blob store the registry needs to keep
// blobs and records in sync on delete.
type BlobRemover interface {
	Remove(logicalPath string)
}

// Registry is the in-memory document metadata table.
type Registry struct {
	mu     sync.RWMutex
	docs   map[int64]*models.Document
	nextID int64
	blobs  BlobRemover
}

// New creates an empty registry. blobs may be nil when blob cleanup on
// delete is not wanted (tests).
func New(blobs BlobRemover) *Registry {
	return &Registry{
		docs:   make(map[int64]*models.Document),
		nextID: 1,
		blobs:  blobs,
	}
}

// Create validates the record, assigns the next id, stamps uploadedAt and
// stores it. Status defaults to pending; the legacy "uploaded" spelling is
// normalized to pending. Returns a copy of the stored record.
func (r *Registry) Create(doc *models.Document) (*models.Document, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := doc.Clone()
	stored.ID = r.nextID
	r.nextID++
	stored.UploadedAt = time.Now()

	switch {
	case stored.Status == "" || stored.Status.IsPending():
		stored.Status = models.StatusPending
	case !stored.Status.Valid():
		return nil, &FieldError{Field: "status"}
	}

	r.docs[stored.ID] = stored
	return stored.Clone(), nil
}

func validate(doc *models.Document) error {
	switch {
	case doc == nil || doc.Name == "":
		return &FieldError{Field: "name"}
	case doc.OriginalName == "":
		return &FieldError{Field: "originalName"}
	case !models.MimeAllowed(doc.MimeType):
		return &FieldError{Field: "mimeType"}
	case doc.Size < 0:
		return &FieldError{Field: "size"}
	case doc.Path == "":
		return &FieldError{Field: "path"}
	}
	return nil
}

// Get returns a copy of the document with the given id.
func (r *Registry) Get(id int64) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return doc.Clone(), nil
}

// ListAll returns copies of every document, newest upload first.
func (r *Registry) ListAll() []*models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*models.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		list = append(list, doc.Clone())
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].UploadedAt.Equal(list[j].UploadedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	return list
}

// UpdateStatus overwrites the status of a document. No transition legality
// check happens here: the lifecycle package is the only caller and owns the
// transition table.
func (r *Registry) UpdateStatus(id int64, status models.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return false
	}
	doc.Status = status
	return true
}

// UpdateProcessed sets status and processedPath in a single replace.
func (r *Registry) UpdateProcessed(id int64, status models.Status, processedPath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return false
	}
	doc.Status = status
	doc.ProcessedPath = processedPath
	return true
}

// Delete removes the record and its blobs. Returns false for unknown ids.
func (r *Registry) Delete(id int64) bool {
	r.mu.Lock()
	doc, ok := r.docs[id]
	if ok {
		delete(r.docs, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	if r.blobs != nil {
		r.blobs.Remove(doc.Path)
		if doc.ProcessedPath != "" {
			r.blobs.Remove(doc.ProcessedPath)
		}
	}
	return true
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// Reset clears every record and rewinds the id counter. Blob cleanup is the
// sweeper's job; Reset only touches the metadata table.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs = make(map[int64]*models.Document)
	r.nextID = 1
}
