// handlers_outputs_test.go - Tests for synthesized document handlers
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

func TestOutputHandler_HandleFormDocuments(t *testing.T) {
	env := newTestEnv()
	env.addResultBlob(t, "170000-form.docx", []byte("form"))
	env.addResultBlob(t, "processed-template.docx", []byte("template"))
	env.addDocument(t, "report.pdf", "application/pdf", []byte("upload"))
	handler := NewOutputHandler(env.store, env.mux)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/form-documents", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleFormDocuments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docs []*models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &docs); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 form document, got %d", len(docs))
	}
	if docs[0].Name != "170000-form.docx" {
		t.Errorf("unexpected document: %s", docs[0].Name)
	}
	if docs[0].Status != models.StatusProcessed {
		t.Errorf("expected processed status, got %s", docs[0].Status)
	}
}

func TestOutputHandler_HandleOutputFiles(t *testing.T) {
	env := newTestEnv()
	env.addResultBlob(t, "170000-form.docx", []byte("form"))
	env.addResultBlob(t, "processed-template.docx", []byte("template"))
	env.addDocument(t, "report.pdf", "application/pdf", []byte("upload"))
	handler := NewOutputHandler(env.store, env.mux)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/output-files", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleOutputFiles(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docs []*models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &docs); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 output documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.Name == "report.pdf" {
			t.Error("uploads must not appear among output files")
		}
	}
}

func TestOutputHandler_HandleOutputFilesEmptyIsArray(t *testing.T) {
	env := newTestEnv()
	handler := NewOutputHandler(env.store, env.mux)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/output-files", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleOutputFiles(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestOutputHandler_HandleDownloadTemplate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantErr    bool
		errCode    string
		wantBody   string
	}{
		{
			name:       "canonical path",
			path:       "results/170000-form.docx",
			wantStatus: http.StatusOK,
			wantBody:   "form bytes",
		},
		{
			name:       "legacy path spelling",
			path:       "filled-forms/170000-form.docx",
			wantStatus: http.StatusOK,
			wantBody:   "form bytes",
		},
		{
			name:       "bare name",
			path:       "170000-form.docx",
			wantStatus: http.StatusOK,
			wantBody:   "form bytes",
		},
		{
			name:       "missing path param",
			path:       "",
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name:       "unknown path",
			path:       "results/absent.docx",
			wantStatus: http.StatusNotFound,
			wantErr:    true,
			errCode:    "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.addResultBlob(t, "170000-form.docx", []byte("form bytes"))
			handler := NewOutputHandler(env.store, env.mux)

			e := echo.New()
			target := "/api/download-template"
			if tt.path != "" {
				target += "?path=" + url.QueryEscape(tt.path)
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleDownloadTemplate(c)

			if tt.wantErr {
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, rec.Body.String())
			}
			disposition := rec.Header().Get(echo.HeaderContentDisposition)
			if !strings.HasPrefix(disposition, "attachment;") {
				t.Errorf("expected attachment disposition, got %s", disposition)
			}
		})
	}
}
