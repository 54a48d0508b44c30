// handlers_documents.go - Registry document operation handlers
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/models"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
	"github.com/shenjiekoh/DocumentPortal/internal/virtual"
)

// DocumentHandlerImpl implements the DocumentHandler interface
type DocumentHandlerImpl struct {
	store *blobstore.Store
	reg   *registry.Registry
	mux   *virtual.Multiplexer
	rules *rulesHolder
}

// NewDocumentHandler creates a new document handler instance
func NewDocumentHandler(store *blobstore.Store, reg *registry.Registry, mux *virtual.Multiplexer, rules *rulesHolder) DocumentHandler {
	return &DocumentHandlerImpl{
		store: store,
		reg:   reg,
		mux:   mux,
		rules: rules,
	}
}

// HandleListDocuments returns all registry documents, newest first
func (h *DocumentHandlerImpl) HandleListDocuments(c echo.Context) error {
	docs := h.reg.ListAll()
	if docs == nil {
		docs = []*models.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// HandleListDocumentsMsgpack returns the same listing msgpack-encoded for
// clients that poll frequently
func (h *DocumentHandlerImpl) HandleListDocumentsMsgpack(c echo.Context) error {
	docs := h.reg.ListAll()
	if docs == nil {
		docs = []*models.Document{}
	}

	data, err := msgpack.Marshal(docs)
	if err != nil {
		return NewInternalError("failed to encode documents", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// HandleGetDocument returns one document, registry-backed or synthesized
func (h *DocumentHandlerImpl) HandleGetDocument(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	doc, apiErr := h.fetchDocument(id)
	if apiErr != nil {
		return apiErr
	}
	return c.JSON(http.StatusOK, doc)
}

// HandleUploadDocument accepts a multipart file upload and creates a
// pending registry document referencing the stored blob
func (h *DocumentHandlerImpl) HandleUploadDocument(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	mimeType := file.Header.Get("Content-Type")
	rules := h.rules.current()
	if !rules.Allows(mimeType) {
		return NewBadRequestError(fmt.Sprintf("unsupported mime type: %q", mimeType), nil)
	}
	if file.Size > rules.MaxUploadBytes {
		return NewBadRequestError(fmt.Sprintf("file exceeds upload limit of %d bytes", rules.MaxUploadBytes), nil)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return NewInternalError("failed to read uploaded file", err)
	}

	name := path.Base(file.Filename)
	if name == "" || name == "." || name == "/" {
		return NewValidationError("file")
	}

	blobPath, err := h.store.Save(name, data)
	if errors.Is(err, blobstore.ErrExists) {
		// Same name uploaded twice; uniquify and keep both.
		name = fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)
		blobPath, err = h.store.Save(name, data)
	}
	if err != nil {
		return NewInternalError("failed to store file", err)
	}

	doc, err := h.reg.Create(&models.Document{
		Name:         name,
		OriginalName: path.Base(file.Filename),
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Path:         blobPath,
	})
	if err != nil {
		// Keep store and registry in sync: a record that failed validation
		// must not leave its blob behind.
		h.store.Remove(blobPath)
		var fieldErr *registry.FieldError
		if errors.As(err, &fieldErr) {
			return NewValidationError(fieldErr.Field)
		}
		return NewInternalError("failed to create document", err)
	}

	return c.JSON(http.StatusCreated, doc)
}

// HandleDownload returns the original bytes as an attachment
func (h *DocumentHandlerImpl) HandleDownload(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	doc, apiErr := h.fetchDocument(id)
	if apiErr != nil {
		return apiErr
	}
	return h.serveBlob(c, doc.Path, doc.Name, doc.MimeType, "attachment")
}

// HandleDownloadProcessed returns the transformed bytes as an attachment
func (h *DocumentHandlerImpl) HandleDownloadProcessed(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	doc, apiErr := h.fetchDocument(id)
	if apiErr != nil {
		return apiErr
	}
	if doc.ProcessedPath == "" {
		return NewNotFoundError("processed document", strconv.FormatInt(id, 10))
	}
	return h.serveBlob(c, doc.ProcessedPath, path.Base(doc.ProcessedPath), "", "attachment")
}

// HandlePreview returns the original bytes inline for in-browser viewing
func (h *DocumentHandlerImpl) HandlePreview(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	doc, apiErr := h.fetchDocument(id)
	if apiErr != nil {
		return apiErr
	}
	return h.serveBlob(c, doc.Path, doc.Name, doc.MimeType, "inline")
}

// HandleDeleteDocument removes a document record together with its blobs.
// Synthetic documents have no record; deleting one removes the bare blob.
func (h *DocumentHandlerImpl) HandleDeleteDocument(c echo.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	if virtual.IsSyntheticID(id) {
		doc, ok := h.mux.Lookup(id)
		if !ok {
			return NewNotFoundError("document", strconv.FormatInt(id, 10))
		}
		h.store.Remove(doc.Path)
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	}

	if !h.reg.Delete(id) {
		return NewNotFoundError("document", strconv.FormatInt(id, 10))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// fetchDocument resolves an id to a registry document or, for ids in the
// synthetic bands, to a multiplexer-synthesized one.
func (h *DocumentHandlerImpl) fetchDocument(id int64) (*models.Document, *APIError) {
	if virtual.IsSyntheticID(id) {
		doc, ok := h.mux.Lookup(id)
		if !ok {
			return nil, NewNotFoundError("document", strconv.FormatInt(id, 10))
		}
		return doc, nil
	}

	doc, err := h.reg.Get(id)
	if err != nil {
		return nil, NewNotFoundError("document", strconv.FormatInt(id, 10))
	}
	return doc, nil
}

// serveBlob streams a stored blob with the given disposition. A missing
// blob is a 404, never an internal error.
func (h *DocumentHandlerImpl) serveBlob(c echo.Context, blobPath, fileName, mimeType, disposition string) error {
	data, err := h.store.Get(blobPath)
	if err != nil {
		return NewNotFoundError("file", blobPath)
	}

	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`%s; filename=%q`, disposition, fileName))
	return c.Blob(http.StatusOK, mimeType, data)
}

// parseDocumentID reads and validates the :id route parameter.
func parseDocumentID(c echo.Context) (int64, *APIError) {
	raw := c.Param("id")
	if raw == "" {
		return 0, NewValidationError("id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError("id")
	}
	return id, nil
}
