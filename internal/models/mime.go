package models

// AllowedMimeTypes is the fixed allow-list of uploadable document types:
// the office formats, PDF, plain text and the two image types the form
// processor understands.
var AllowedMimeTypes = map[string]bool{
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/pdf": true,
	"text/plain":      true,
	"image/jpeg":      true,
	"image/png":       true,
}

// MimeAllowed reports whether the mime type is on the upload allow-list.
func MimeAllowed(mimeType string) bool {
	return AllowedMimeTypes[mimeType]
}
