// handlers_outputs.go - Synthesized document and raw path download handlers
package api

import (
	"fmt"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/models"
	"github.com/shenjiekoh/DocumentPortal/internal/virtual"
)

// OutputHandlerImpl implements the OutputHandler interface
type OutputHandlerImpl struct {
	store *blobstore.Store
	mux   *virtual.Multiplexer
}

// NewOutputHandler creates a new output handler instance
func NewOutputHandler(store *blobstore.Store, mux *virtual.Multiplexer) OutputHandler {
	return &OutputHandlerImpl{store: store, mux: mux}
}

// HandleOutputFiles lists synthesized documents for every results blob
func (h *OutputHandlerImpl) HandleOutputFiles(c echo.Context) error {
	docs := h.mux.OutputFiles()
	if docs == nil {
		docs = []*models.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// HandleFormDocuments lists synthesized documents for filled-form outputs
func (h *OutputHandlerImpl) HandleFormDocuments(c echo.Context) error {
	docs := h.mux.FormDocuments()
	if docs == nil {
		docs = []*models.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// HandleDownloadTemplate serves a blob addressed by raw logical path. Any
// historical path spelling resolves; the response is always an attachment.
func (h *OutputHandlerImpl) HandleDownloadTemplate(c echo.Context) error {
	logicalPath := c.QueryParam("path")
	if logicalPath == "" {
		return NewValidationError("path")
	}

	data, err := h.store.Get(logicalPath)
	if err != nil {
		return NewNotFoundError("file", logicalPath)
	}

	name := path.Base(logicalPath)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}
