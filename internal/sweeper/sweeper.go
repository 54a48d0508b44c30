// Package sweeper reclaims all volatile portal state. A sweep wipes both
// blob namespaces and the registry in one blunt, non-selective pass; it
// runs once at startup and whenever the last connected client goes away.
package sweeper

import (
	"fmt"
	"sync"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
)

// Sweeper clears the blob store and the registry.
type Sweeper struct {
	store *blobstore.Store
	reg   *registry.Registry
}

// New creates a sweeper over the given store and registry.
func New(store *blobstore.Store, reg *registry.Registry) *Sweeper {
	return &Sweeper{store: store, reg: reg}
}

// Sweep deletes every blob, clears the registry and rewinds the id counter.
// Sweeping twice in a row is the same as sweeping once. A document that is
// mid-processing when the sweep runs is orphaned; its completion callback
// will find nothing to update.
func (s *Sweeper) Sweep() {
	blobs := s.store.Len()
	docs := s.reg.Len()

	s.store.Clear()
	s.reg.Reset()

	fmt.Printf("[Sweeper] Cleared %d blobs and %d documents\n", blobs, docs)
}

// Tracker counts active client connections and sweeps when the count drops
// to zero. Connections are page/presence connections, not API requests.
type Tracker struct {
	mu      sync.Mutex
	active  int
	sweeper *Sweeper
}

// NewTracker creates a tracker that triggers sw when the last client leaves.
func NewTracker(sw *Sweeper) *Tracker {
	return &Tracker{sweeper: sw}
}

// Connect records a new client connection and returns the active count.
func (t *Tracker) Connect() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active++
	return t.active
}

// Disconnect records a closed connection. The transition to zero triggers
// the sweep while the lock is held, so a connect racing the sweep either
// lands before the wipe or on a freshly empty portal.
func (t *Tracker) Disconnect() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active > 0 {
		t.active--
	}
	if t.active == 0 {
		fmt.Printf("[Sweeper] Last client disconnected, sweeping\n")
		t.sweeper.Sweep()
	}
	return t.active
}

// Active returns the current connection count.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
