package models

import "testing"

func TestStatusValid(t *testing.T) {
	valid := []Status{StatusPending, StatusProcessing, StatusProcessed, StatusError}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	// "uploaded" is accepted on input but never stored.
	invalid := []Status{StatusUploaded, Status(""), Status("archived")}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestStatusIsPending(t *testing.T) {
	if !StatusPending.IsPending() {
		t.Error("pending should count as pending")
	}
	if !StatusUploaded.IsPending() {
		t.Error("legacy uploaded should count as pending")
	}
	if StatusProcessing.IsPending() {
		t.Error("processing should not count as pending")
	}
}

func TestDocumentClone(t *testing.T) {
	doc := &Document{ID: 1, Name: "report.pdf", Status: StatusPending}
	clone := doc.Clone()

	clone.Name = "other.pdf"
	clone.Status = StatusError

	if doc.Name != "report.pdf" || doc.Status != StatusPending {
		t.Error("mutating the clone must not touch the original")
	}
}

func TestMimeAllowed(t *testing.T) {
	allowed := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
		"image/png",
	}
	for _, mt := range allowed {
		if !MimeAllowed(mt) {
			t.Errorf("expected %q to be allowed", mt)
		}
	}

	denied := []string{"", "application/x-msdownload", "video/mp4"}
	for _, mt := range denied {
		if MimeAllowed(mt) {
			t.Errorf("expected %q to be denied", mt)
		}
	}
}
