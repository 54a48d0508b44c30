// Package lifecycle owns the document status state machine. Every status
// change in the system goes through this package so no caller can bypass
// the transition table:
//
//	pending -> processing -> processed | error
//
// The legacy "uploaded" status is accepted as an alias of pending when a
// processing run begins. There is no transition out of processed or error;
// reprocessing requires a fresh upload.
package lifecycle

import (
	"fmt"
	"sync"

	"github.com/shenjiekoh/DocumentPortal/internal/models"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
)

// ConflictError reports a transition requested from an illegal state. The
// current status is part of the message so the client sees why the request
// was rejected.
type ConflictError struct {
	ID        int64
	Current   models.Status
	Requested models.Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("document %d is %q, cannot move to %q", e.ID, e.Current, e.Requested)
}

// Lifecycle validates and applies status transitions against the registry.
type Lifecycle struct {
	mu  sync.Mutex
	reg *registry.Registry
}

// New creates a lifecycle bound to the given registry.
func New(reg *registry.Registry) *Lifecycle {
	return &Lifecycle{reg: reg}
}

// Begin moves a document to processing. Only pending documents (or the
// legacy "uploaded" spelling) are accepted; the write happens before any
// upstream call is dispatched, so a concurrent second request hits the
// guard and fails.
func (l *Lifecycle) Begin(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.reg.Get(id)
	if err != nil {
		return err
	}
	if !doc.Status.IsPending() {
		return &ConflictError{ID: id, Current: doc.Status, Requested: models.StatusProcessing}
	}

	if !l.reg.UpdateStatus(id, models.StatusProcessing) {
		return fmt.Errorf("id %d: %w", id, registry.ErrNotFound)
	}
	return nil
}

// Complete moves a processing document to processed and records where the
// transformed blob landed.
func (l *Lifecycle) Complete(id int64, processedPath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.reg.Get(id)
	if err != nil {
		return err
	}
	if doc.Status != models.StatusProcessing {
		return &ConflictError{ID: id, Current: doc.Status, Requested: models.StatusProcessed}
	}

	if !l.reg.UpdateProcessed(id, models.StatusProcessed, processedPath) {
		return fmt.Errorf("id %d: %w", id, registry.ErrNotFound)
	}
	return nil
}

// Fail moves a processing document to error. The write is best-effort: the
// caller is already propagating the original failure, so problems here are
// logged and swallowed rather than masking that error.
func (l *Lifecycle) Fail(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.reg.Get(id)
	if err != nil {
		fmt.Printf("[Lifecycle] Warning: cannot mark document %d as error: %v\n", id, err)
		return
	}
	if doc.Status != models.StatusProcessing {
		fmt.Printf("[Lifecycle] Warning: document %d is %q, not marking error\n", id, doc.Status)
		return
	}
	if !l.reg.UpdateStatus(id, models.StatusError) {
		fmt.Printf("[Lifecycle] Warning: status write failed for document %d\n", id)
	}
}
