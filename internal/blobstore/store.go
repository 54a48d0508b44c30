package blobstore

import (
	"errors"
	"fmt"
	"path"
	"sync"
	"time"
)

// ErrNotFound is returned when no blob resolves to the requested path.
var ErrNotFound = errors.New("blob not found")

// ErrExists is returned when a save would overwrite an existing blob.
// Results are immutable once written; callers uniquify names instead.
var ErrExists = errors.New("blob already exists")

// Info describes a stored blob without its content.
type Info struct {
	Path    string
	Name    string
	Size    int64
	SavedAt time.Time
}

type entry struct {
	data    []byte
	savedAt time.Time
}

// Store is the in-memory virtual file store. Blobs are keyed by canonical
// logical path; lookups tolerate every historical path spelling. The store
// lives for the process lifetime and is cleared wholesale by the sweeper.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string // canonical paths in insertion order
	mirror  *Mirror
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// NewWithMirror creates a store that write-through mirrors the results
// namespace into m, and restores previously mirrored results blobs.
func NewWithMirror(m *Mirror) (*Store, error) {
	s := New()
	s.mirror = m

	err := m.LoadAll(func(p string, savedAt time.Time, data []byte) {
		ref := ParseRef(p)
		canonical := ref.Canonical()
		if _, ok := s.entries[canonical]; ok {
			return
		}
		s.entries[canonical] = entry{data: data, savedAt: savedAt}
		s.order = append(s.order, canonical)
	})
	if err != nil {
		return nil, fmt.Errorf("restoring mirrored results: %w", err)
	}
	return s, nil
}

// Save stores data under a path derived from the file name: names matching a
// processor-output convention land in the results namespace, everything else
// in uploads. Returns the chosen logical path. Saving over an existing path
// fails with ErrExists.
func (s *Store) Save(name string, data []byte) (string, error) {
	return s.SaveIn(ClassifyName(name), name, data)
}

// SaveIn stores data under an explicit namespace, bypassing name
// classification. Used by the processor write-back path, which always
// produces results regardless of the output's name.
func (s *Store) SaveIn(ns Namespace, name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty blob name")
	}

	ref := Ref{Namespace: ns, Name: name}
	canonical := ref.Canonical()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[canonical]; ok {
		return "", fmt.Errorf("%s: %w", canonical, ErrExists)
	}

	e := entry{data: data, savedAt: time.Now()}
	s.entries[canonical] = e
	s.order = append(s.order, canonical)

	if s.mirror != nil && ns == NamespaceResults {
		if err := s.mirror.Put(canonical, e.savedAt, data); err != nil {
			// Mirror writes are best-effort; the in-memory copy is the
			// authoritative one for this process lifetime.
			fmt.Printf("[BlobStore] Warning: mirror write failed for %s: %v\n", canonical, err)
		}
	}

	return canonical, nil
}

// Get returns the blob for a logical path. Resolution tries, in order: the
// exact canonical rewrite of the given path, then a bare-name match against
// the basename of every stored path. A miss returns ErrNotFound.
func (s *Store) Get(logicalPath string) ([]byte, error) {
	_, data, err := s.resolve(logicalPath)
	return data, err
}

// Stat returns metadata for a logical path using the same resolution as Get.
func (s *Store) Stat(logicalPath string) (Info, error) {
	info, _, err := s.resolve(logicalPath)
	return info, err
}

func (s *Store) resolve(logicalPath string) (Info, []byte, error) {
	if logicalPath == "" {
		return Info{}, nil, ErrNotFound
	}

	canonical := ParseRef(logicalPath).Canonical()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[canonical]; ok {
		return infoFor(canonical, e), e.data, nil
	}

	// Bare-name fallback: match against the basename of any stored path.
	base := path.Base(logicalPath)
	for _, p := range s.order {
		if path.Base(p) == base {
			e := s.entries[p]
			return infoFor(p, e), e.data, nil
		}
	}

	return Info{}, nil, fmt.Errorf("%s: %w", logicalPath, ErrNotFound)
}

func infoFor(canonical string, e entry) Info {
	return Info{
		Path:    canonical,
		Name:    path.Base(canonical),
		Size:    int64(len(e.data)),
		SavedAt: e.savedAt,
	}
}

// Remove deletes the blob at the given path. Absence is not an error.
func (s *Store) Remove(logicalPath string) {
	if logicalPath == "" {
		return
	}
	canonical := ParseRef(logicalPath).Canonical()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[canonical]; !ok {
		return
	}
	delete(s.entries, canonical)
	for i, p := range s.order {
		if p == canonical {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if s.mirror != nil {
		if err := s.mirror.Delete(canonical); err != nil {
			fmt.Printf("[BlobStore] Warning: mirror delete failed for %s: %v\n", canonical, err)
		}
	}
}

// Paths returns all stored canonical paths in insertion order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// List returns metadata for every stored blob in insertion order.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Info, 0, len(s.order))
	for _, p := range s.order {
		out = append(out, infoFor(p, s.entries[p]))
	}
	return out
}

// Len returns the number of stored blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear deletes every blob in both namespaces, and the mirror with them.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
	s.order = nil

	if s.mirror != nil {
		if err := s.mirror.Clear(); err != nil {
			fmt.Printf("[BlobStore] Warning: mirror clear failed: %v\n", err)
		}
	}
}
