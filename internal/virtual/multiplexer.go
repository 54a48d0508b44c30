// Package virtual synthesizes document records for blobs that live in the
// store without a registry entry, typically output the processor dropped
// directly into the results namespace. Synthetic ids are derived from the
// blob's canonical path, so the id for a given blob is stable for as long
// as the blob exists, regardless of intervening writes or deletes.
package virtual

import (
	"hash/fnv"
	"path"
	"sort"
	"strings"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

// Synthetic id bands. Each partition of the results namespace gets a
// disjoint band far above anything the registry's monotonic counter will
// reach in a process lifetime.
const (
	FormBandBase      int64 = 1_000_000
	ProcessedBandBase int64 = 2_000_000
	ResultBandBase    int64 = 3_000_000
	bandWidth         int64 = 1_000_000
)

// Multiplexer builds synthetic documents over the blob store's listing.
type Multiplexer struct {
	store *blobstore.Store
}

// New creates a multiplexer over the given store.
func New(store *blobstore.Store) *Multiplexer {
	return &Multiplexer{store: store}
}

// IsSyntheticID reports whether an id falls in one of the synthetic bands.
func IsSyntheticID(id int64) bool {
	return id >= FormBandBase && id < ResultBandBase+bandWidth
}

// FormDocuments lists synthetic documents for filled-form outputs.
func (m *Multiplexer) FormDocuments() []*models.Document {
	return m.partition(func(name string) bool { return blobstore.IsFormOutput(name) }, FormBandBase)
}

// OutputFiles lists synthetic documents for every results-namespace blob.
func (m *Multiplexer) OutputFiles() []*models.Document {
	var out []*models.Document
	out = append(out, m.FormDocuments()...)
	out = append(out, m.partition(isProcessedTemplateOnly, ProcessedBandBase)...)
	out = append(out, m.partition(isPlainResult, ResultBandBase)...)

	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

// Lookup resolves a synthetic id back to its blob by re-deriving the same
// partition the id was minted from.
func (m *Multiplexer) Lookup(id int64) (*models.Document, bool) {
	var docs []*models.Document
	switch {
	case id >= FormBandBase && id < FormBandBase+bandWidth:
		docs = m.partition(func(name string) bool { return blobstore.IsFormOutput(name) }, FormBandBase)
	case id >= ProcessedBandBase && id < ProcessedBandBase+bandWidth:
		docs = m.partition(isProcessedTemplateOnly, ProcessedBandBase)
	case id >= ResultBandBase && id < ResultBandBase+bandWidth:
		docs = m.partition(isPlainResult, ResultBandBase)
	default:
		return nil, false
	}

	for _, doc := range docs {
		if doc.ID == id {
			return doc, true
		}
	}
	return nil, false
}

// isProcessedTemplateOnly selects processed-template outputs that are not
// also filled forms, keeping the two partitions disjoint.
func isProcessedTemplateOnly(name string) bool {
	return blobstore.IsProcessedTemplate(name) && !blobstore.IsFormOutput(name)
}

// isPlainResult selects results blobs matching neither output convention,
// e.g. restored blobs written under a results prefix by older versions.
func isPlainResult(name string) bool {
	return !blobstore.LooksLikeOutput(name)
}

// partition lists the results-namespace blobs selected by match, each with
// an id derived from its canonical path reduced into the partition's band.
// On the rare in-band hash collision the first blob in sorted-path order
// keeps the id and later ones are dropped from the view.
func (m *Multiplexer) partition(match func(name string) bool, base int64) []*models.Document {
	infos := m.store.List()

	selected := make([]blobstore.Info, 0, len(infos))
	for _, info := range infos {
		if !strings.HasPrefix(info.Path, string(blobstore.NamespaceResults)+"/") {
			continue
		}
		if match(info.Name) {
			selected = append(selected, info)
		}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].Path < selected[j].Path })

	seen := make(map[int64]bool, len(selected))
	docs := make([]*models.Document, 0, len(selected))
	for _, info := range selected {
		id := deriveID(base, info.Path)
		if seen[id] {
			continue
		}
		seen[id] = true
		docs = append(docs, synthesize(id, info))
	}
	return docs
}

// deriveID hashes the canonical path into the partition's band.
func deriveID(base int64, canonicalPath string) int64 {
	h := fnv.New64a()
	h.Write([]byte(canonicalPath))
	return base + int64(h.Sum64()%uint64(bandWidth))
}

// synthesize builds a registry-shaped document for a bare blob. The blob is
// processor output, so status is fixed at processed and both paths point at
// the same blob.
func synthesize(id int64, info blobstore.Info) *models.Document {
	return &models.Document{
		ID:            id,
		Name:          info.Name,
		OriginalName:  info.Name,
		MimeType:      mimeForName(info.Name),
		Size:          info.Size,
		Path:          info.Path,
		ProcessedPath: info.Path,
		Status:        models.StatusProcessed,
		UploadedAt:    info.SavedAt,
	}
}

var mimeByExt = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func mimeForName(name string) string {
	if mt, ok := mimeByExt[strings.ToLower(path.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}
