package blobstore

import "testing"

func TestParseRef(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantNS   Namespace
		wantName string
	}{
		{
			name:     "canonical input path",
			path:     "uploads/report.pdf",
			wantNS:   NamespaceInput,
			wantName: "report.pdf",
		},
		{
			name:     "canonical results path",
			path:     "results/170000-form.docx",
			wantNS:   NamespaceResults,
			wantName: "170000-form.docx",
		},
		{
			name:     "legacy virtual-uploads spelling",
			path:     "virtual-uploads/report.pdf",
			wantNS:   NamespaceInput,
			wantName: "report.pdf",
		},
		{
			name:     "legacy memory-uploads spelling",
			path:     "memory-uploads/notes.txt",
			wantNS:   NamespaceInput,
			wantName: "notes.txt",
		},
		{
			name:     "legacy filled-forms spelling",
			path:     "filled-forms/170000-form.docx",
			wantNS:   NamespaceResults,
			wantName: "170000-form.docx",
		},
		{
			name:     "legacy processed-templates spelling",
			path:     "processed-templates/report-processed.docx",
			wantNS:   NamespaceResults,
			wantName: "report-processed.docx",
		},
		{
			name:     "legacy virtual-results spelling",
			path:     "virtual-results/170000-form.docx",
			wantNS:   NamespaceResults,
			wantName: "170000-form.docx",
		},
		{
			name:     "leading slash is tolerated",
			path:     "/uploads/report.pdf",
			wantNS:   NamespaceInput,
			wantName: "report.pdf",
		},
		{
			name:     "bare input-looking name",
			path:     "report.pdf",
			wantNS:   NamespaceInput,
			wantName: "report.pdf",
		},
		{
			name:     "bare output-looking name",
			path:     "170000-form.docx",
			wantNS:   NamespaceResults,
			wantName: "170000-form.docx",
		},
		{
			name:     "unknown prefix falls back to name classification",
			path:     "somewhere/else/report-form.docx",
			wantNS:   NamespaceResults,
			wantName: "report-form.docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ParseRef(tt.path)
			if ref.Namespace != tt.wantNS {
				t.Errorf("expected namespace %q, got %q", tt.wantNS, ref.Namespace)
			}
			if ref.Name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, ref.Name)
			}
		})
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	aliases := []string{
		"results/170000-form.docx",
		"filled-forms/170000-form.docx",
		"virtual-results/170000-form.docx",
	}
	for _, alias := range aliases {
		if got := ParseRef(alias).Canonical(); got != "results/170000-form.docx" {
			t.Errorf("ParseRef(%q).Canonical() = %q, want results/170000-form.docx", alias, got)
		}
	}
}

func TestOutputNameClassification(t *testing.T) {
	tests := []struct {
		name          string
		fileName      string
		wantOutput    bool
		wantForm      bool
		wantProcessed bool
	}{
		{"filled form", "170000-form.docx", true, true, false},
		{"filled form uppercase", "170000-FORM.DOCX", true, true, false},
		{"processed template", "report-processed.docx", true, false, true},
		{"processed marker anywhere", "processed_report.docx", true, false, true},
		{"plain upload", "report.pdf", false, false, false},
		{"form without suffix position", "formletter.docx", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeOutput(tt.fileName); got != tt.wantOutput {
				t.Errorf("LooksLikeOutput(%q) = %v, want %v", tt.fileName, got, tt.wantOutput)
			}
			if got := IsFormOutput(tt.fileName); got != tt.wantForm {
				t.Errorf("IsFormOutput(%q) = %v, want %v", tt.fileName, got, tt.wantForm)
			}
			if got := IsProcessedTemplate(tt.fileName); got != tt.wantProcessed {
				t.Errorf("IsProcessedTemplate(%q) = %v, want %v", tt.fileName, got, tt.wantProcessed)
			}
		})
	}
}
