// handlers_health_test.go - Tests for the health handler
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_HandleHealth(t *testing.T) {
	env := newTestEnv()
	env.addDocument(t, "report.pdf", "application/pdf", []byte("content"))
	env.addResultBlob(t, "170000-form.docx", []byte("form"))
	handler := NewHealthHandler("1.2.3", env.store, env.reg)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleHealth(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string `json:"status"`
		Version   string `json:"version"`
		Uptime    string `json:"uptime"`
		Documents int    `json:"documents"`
		Blobs     int    `json:"blobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %s", body.Status)
	}
	if body.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", body.Version)
	}
	if body.Documents != 1 {
		t.Errorf("expected 1 document, got %d", body.Documents)
	}
	if body.Blobs != 2 {
		t.Errorf("expected 2 blobs, got %d", body.Blobs)
	}
	if body.Uptime == "" {
		t.Error("expected an uptime string")
	}
}
