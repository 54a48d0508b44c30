// testutil.go - Shared test helpers for handler tests
package testutil

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

// NewMultipartRequest builds a multipart upload request carrying a single
// file part with an explicit Content-Type on the part header.
func NewMultipartRequest(t *testing.T, url, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("creating multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing multipart data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// StubProcessor is a programmable transformer client for handler tests.
type StubProcessor struct {
	mu          sync.Mutex
	ProcessFunc func(ctx context.Context, doc *models.Document) (string, error)
	calls       []int64
}

func (s *StubProcessor) Process(ctx context.Context, doc *models.Document) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, doc.ID)
	s.mu.Unlock()

	if s.ProcessFunc != nil {
		return s.ProcessFunc(ctx, doc)
	}
	return "", nil
}

// Calls returns the document ids Process was invoked with, in order.
func (s *StubProcessor) Calls() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.calls))
	copy(out, s.calls)
	return out
}
