package models

import "time"

// Status represents the processing status of a document.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusError      Status = "error"

	// StatusUploaded is a legacy spelling of "pending" still sent by older
	// clients. It is accepted on input but never written.
	StatusUploaded Status = "uploaded"
)

// Valid reports whether s is a status the server will store.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusProcessed, StatusError:
		return true
	}
	return false
}

// IsPending reports whether s counts as the initial state, treating the
// legacy "uploaded" spelling as an alias of "pending".
func (s Status) IsPending() bool {
	return s == StatusPending || s == StatusUploaded
}

// Document represents metadata about an uploaded document.
type Document struct {
	ID            int64     `json:"id" msgpack:"id"`
	Name          string    `json:"name" msgpack:"name"`
	OriginalName  string    `json:"originalName" msgpack:"originalName"`
	MimeType      string    `json:"mimeType" msgpack:"mimeType"`
	Size          int64     `json:"size" msgpack:"size"`
	Path          string    `json:"path" msgpack:"path"`
	Status        Status    `json:"status" msgpack:"status"`
	ProcessedPath string    `json:"processedPath,omitempty" msgpack:"processedPath,omitempty"`
	UploadedAt    time.Time `json:"uploadedAt" msgpack:"uploadedAt"`
}

// Clone returns a copy of the document so callers can hand records out
// without exposing registry-internal pointers.
func (d *Document) Clone() *Document {
	c := *d
	return &c
}
