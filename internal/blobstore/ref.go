// ref.go - Logical path parsing and namespace normalization
package blobstore

import (
	"path"
	"strings"
)

// Namespace identifies the conceptual group a blob belongs to. The canonical
// spellings are "uploads" for freshly uploaded documents and "results" for
// processor output.
type Namespace string

const (
	NamespaceInput   Namespace = "uploads"
	NamespaceResults Namespace = "results"
)

// namespaceAliases maps every prefix spelling the system has ever used to
// its canonical namespace. Several spellings accumulated over time; they all
// address the same blobs.
var namespaceAliases = map[string]Namespace{
	"uploads":             NamespaceInput,
	"virtual-uploads":     NamespaceInput,
	"memory-uploads":      NamespaceInput,
	"results":             NamespaceResults,
	"virtual-results":     NamespaceResults,
	"filled-forms":        NamespaceResults,
	"processed-templates": NamespaceResults,
}

// Ref addresses a blob by canonical namespace and bare file name.
type Ref struct {
	Namespace Namespace
	Name      string
}

// Canonical returns the canonical logical path for the ref.
func (r Ref) Canonical() string {
	return string(r.Namespace) + "/" + r.Name
}

// ParseRef resolves a logical path to a canonical ref. Paths with a known
// prefix (canonical or legacy) are rewritten; bare file names are classified
// by naming convention, the same way Save chooses a namespace.
func ParseRef(logicalPath string) Ref {
	p := strings.TrimPrefix(strings.TrimSpace(logicalPath), "/")
	if i := strings.Index(p, "/"); i > 0 {
		if ns, ok := namespaceAliases[p[:i]]; ok {
			return Ref{Namespace: ns, Name: p[i+1:]}
		}
	}
	// Unknown prefix or bare name: classify by the file name alone.
	return Ref{Namespace: ClassifyName(path.Base(p)), Name: path.Base(p)}
}

// ClassifyName picks the namespace for a file name: names following a
// processor-output convention belong to results, everything else is input.
func ClassifyName(name string) Namespace {
	if LooksLikeOutput(name) {
		return NamespaceResults
	}
	return NamespaceInput
}

// LooksLikeOutput reports whether a file name follows one of the processor
// output naming conventions.
func LooksLikeOutput(name string) bool {
	return IsFormOutput(name) || IsProcessedTemplate(name)
}

// IsFormOutput reports whether the name follows the filled-form convention,
// e.g. "170000-form.docx".
func IsFormOutput(name string) bool {
	stem := strings.TrimSuffix(name, path.Ext(name))
	return strings.HasSuffix(strings.ToLower(stem), "-form")
}

// IsProcessedTemplate reports whether the name carries the processed-template
// marker, e.g. "report-processed.docx".
func IsProcessedTemplate(name string) bool {
	return strings.Contains(strings.ToLower(name), "processed")
}
