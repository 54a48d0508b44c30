// handlers_process.go - Transformation trigger and write-back handlers
package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/lifecycle"
	"github.com/shenjiekoh/DocumentPortal/internal/processor"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
)

// ProcessingHandlerImpl implements the ProcessingHandler interface
type ProcessingHandlerImpl struct {
	store     blobSaver
	reg       *registry.Registry
	lc        *lifecycle.Lifecycle
	processor Processor
}

// blobSaver is the slice of the blob store the write-back path needs.
type blobSaver interface {
	processor.ResultStore
}

// NewProcessingHandler creates a new processing handler instance
func NewProcessingHandler(store blobSaver, reg *registry.Registry, lc *lifecycle.Lifecycle, proc Processor) ProcessingHandler {
	return &ProcessingHandlerImpl{
		store:     store,
		reg:       reg,
		lc:        lc,
		processor: proc,
	}
}

// HandleProcessDocument triggers one transformation run. The document moves
// to processing before the external call is dispatched, so a second request
// racing this one is rejected by the lifecycle guard rather than a lock.
func (h *ProcessingHandlerImpl) HandleProcessDocument(c echo.Context) error {
	id, apiErr := parseDocumentID(c)
	if apiErr != nil {
		return apiErr
	}

	doc, err := h.reg.Get(id)
	if err != nil {
		return NewNotFoundError("document", strconv.FormatInt(id, 10))
	}

	if err := h.lc.Begin(id); err != nil {
		var conflict *lifecycle.ConflictError
		if errors.As(err, &conflict) {
			return NewStateConflictError(conflict.Error())
		}
		return NewNotFoundError("document", strconv.FormatInt(id, 10))
	}

	processedPath, err := h.processor.Process(c.Request().Context(), doc)
	if err != nil {
		// The document is already marked error by the client.
		return NewUpstreamError("document processing failed", err)
	}

	updated, err := h.reg.Get(id)
	if err != nil {
		return NewUpstreamError("document swept during processing", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":            id,
		"status":        updated.Status,
		"processedPath": processedPath,
	})
}

// processingResultRequest is the write-back payload sent by transformers
// that deliver their output via callback instead of an inline response.
type processingResultRequest struct {
	DocumentID int64  `json:"documentId"`
	Success    bool   `json:"success"`
	FileName   string `json:"fileName"`
	Content    string `json:"content"` // Base64-encoded produced bytes
	Message    string `json:"message"`
}

func (r *processingResultRequest) validate() error {
	if r.DocumentID <= 0 {
		return NewValidationError("documentId")
	}
	if r.Success && r.Content == "" {
		return NewValidationError("content")
	}
	return nil
}

// HandleProcessingResult accepts the transformer's write-back call
func (h *ProcessingHandlerImpl) HandleProcessingResult(c echo.Context) error {
	var req processingResultRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	doc, err := h.reg.Get(req.DocumentID)
	if err != nil {
		return NewNotFoundError("document", strconv.FormatInt(req.DocumentID, 10))
	}

	if !req.Success {
		h.lc.Fail(req.DocumentID)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"id":      req.DocumentID,
			"status":  "error",
			"message": req.Message,
		})
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return NewBadRequestError("invalid base64 content", err)
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = doc.Name
	}

	processedPath, err := processor.SaveResult(h.store, fileName, data)
	if err != nil {
		return NewInternalError("failed to store result", err)
	}

	if err := h.lc.Complete(req.DocumentID, processedPath); err != nil {
		var conflict *lifecycle.ConflictError
		if errors.As(err, &conflict) {
			return NewStateConflictError(conflict.Error())
		}
		return NewNotFoundError("document", strconv.FormatInt(req.DocumentID, 10))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":            req.DocumentID,
		"status":        "processed",
		"processedPath": processedPath,
	})
}
