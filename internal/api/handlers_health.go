// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	started time.Time
	store   *blobstore.Store
	reg     *registry.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, store *blobstore.Store, reg *registry.Registry) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		started: time.Now(),
		store:   store,
		reg:     reg,
	}
}

// HandleHealth returns server health status together with the current size
// of the volatile state, which is what operators of an in-memory portal
// actually want to see
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"documents": h.reg.Len(),
		"blobs":     h.store.Len(),
	})
}
