// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

// DocumentHandler handles registry document operations
type DocumentHandler interface {
	HandleListDocuments(c echo.Context) error
	HandleListDocumentsMsgpack(c echo.Context) error
	HandleGetDocument(c echo.Context) error
	HandleUploadDocument(c echo.Context) error
	HandleDownload(c echo.Context) error
	HandleDownloadProcessed(c echo.Context) error
	HandlePreview(c echo.Context) error
	HandleDeleteDocument(c echo.Context) error
}

// ProcessingHandler handles transformation triggers and write-backs
type ProcessingHandler interface {
	HandleProcessDocument(c echo.Context) error
	HandleProcessingResult(c echo.Context) error
}

// OutputHandler serves synthesized documents and raw template downloads
type OutputHandler interface {
	HandleOutputFiles(c echo.Context) error
	HandleFormDocuments(c echo.Context) error
	HandleDownloadTemplate(c echo.Context) error
}

// AdminHandler handles memory clearing and validation rules
type AdminHandler interface {
	HandleClearMemory(c echo.Context) error
	HandleGetValidationRules(c echo.Context) error
	HandleUpdateValidationRules(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Processor is the piece of the transformer client the processing handler
// needs. Lets tests substitute a stub for the external call.
type Processor interface {
	Process(ctx context.Context, doc *models.Document) (string, error)
}
