// Package processor is the HTTP client for the external document
// transformer. The transformer is a black box invoked with a document id;
// on success it either returns the produced bytes inline (base64) or calls
// back on the processing-results endpoint.
package processor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/lifecycle"
	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

// DefaultTimeout caps a single transformation round trip. The external
// process is killed by its own supervisor after the same bound.
const DefaultTimeout = 3 * time.Minute

// request is the payload sent to the transformer.
type request struct {
	DocumentID int64  `json:"documentId"`
	Name       string `json:"name"`
	MimeType   string `json:"mimeType"`
}

// response is the transformer's reply. Content is base64 when the
// transformer returns the produced bytes inline.
type response struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	Content  string `json:"content"`
	Message  string `json:"message"`
}

// UpstreamError wraps any failure of the external call so the API layer can
// map it to a 500 while the document is driven to error status.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("processor: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("processor: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ResultStore is the slice of the blob store needed to land transformer
// output in the results namespace.
type ResultStore interface {
	SaveIn(ns blobstore.Namespace, name string, data []byte) (string, error)
}

// Client invokes the transformer and lands its output in the blob store.
type Client struct {
	url   string
	http  *http.Client
	store ResultStore
	lc    *lifecycle.Lifecycle
}

// New creates a client for the transformer at url. A zero timeout falls
// back to DefaultTimeout.
func New(url string, timeout time.Duration, store ResultStore, lc *lifecycle.Lifecycle) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:   url,
		http:  &http.Client{Timeout: timeout},
		store: store,
		lc:    lc,
	}
}

// Process runs one transformation for a document already moved to
// processing by the caller. When the transformer returns the produced bytes
// inline they are stored in the results namespace and the document
// completes; a success report without content means the transformer will
// deliver the bytes through the processing-results endpoint, so the
// document is left processing for that callback. Any failure drives the
// document to error and surfaces as an *UpstreamError.
func (c *Client) Process(ctx context.Context, doc *models.Document) (string, error) {
	processedPath, err := c.invoke(ctx, doc)
	if err != nil {
		c.lc.Fail(doc.ID)
		return "", err
	}

	if processedPath == "" {
		return "", nil
	}

	if err := c.lc.Complete(doc.ID, processedPath); err != nil {
		// The blob landed but the record moved under us (e.g. a sweep ran
		// mid-flight). The output stays discoverable via the multiplexer.
		return "", &UpstreamError{Message: "completion lost", Err: err}
	}
	return processedPath, nil
}

func (c *Client) invoke(ctx context.Context, doc *models.Document) (string, error) {
	body, err := json.Marshal(request{DocumentID: doc.ID, Name: doc.Name, MimeType: doc.MimeType})
	if err != nil {
		return "", &UpstreamError{Message: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UpstreamError{Message: "transformer unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Message: fmt.Sprintf("transformer returned %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Message: "reading response", Err: err}
	}

	var res response
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", &UpstreamError{Message: "decoding response", Err: err}
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "transformation failed"
		}
		return "", &UpstreamError{Message: msg}
	}

	if res.Content == "" {
		// Write-back mode: the transformer delivers bytes itself through
		// the processing-results endpoint. Nothing to store here.
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(res.Content)
	if err != nil {
		return "", &UpstreamError{Message: "invalid base64 content", Err: err}
	}

	return SaveResult(c.store, resultName(doc, res.FileName), data)
}

// SaveResult stores transformer output under a uniquified name in the
// results namespace. New runs always produce new files; on the rare name
// collision a random id is folded into the name instead of overwriting.
func SaveResult(store ResultStore, name string, data []byte) (string, error) {
	unique := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)
	p, err := store.SaveIn(blobstore.NamespaceResults, unique, data)
	if err == nil {
		return p, nil
	}

	unique = fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.New().String()[:8], name)
	p, err = store.SaveIn(blobstore.NamespaceResults, unique, data)
	if err != nil {
		return "", &UpstreamError{Message: "storing result", Err: err}
	}
	return p, nil
}

// resultName picks the output file name, deriving the filled-form
// convention from the source document when the transformer omits one.
func resultName(doc *models.Document, fileName string) string {
	if fileName != "" {
		return path.Base(fileName)
	}
	stem := strings.TrimSuffix(doc.Name, path.Ext(doc.Name))
	return stem + "-form.docx"
}
