// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/config"
	"github.com/shenjiekoh/DocumentPortal/internal/lifecycle"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
	"github.com/shenjiekoh/DocumentPortal/internal/sweeper"
	"github.com/shenjiekoh/DocumentPortal/internal/virtual"
)

// Dependencies holds all handler dependencies, constructed once by the
// composition root and threaded through every handler. There is no hidden
// module-level state.
type Dependencies struct {
	Store     *blobstore.Store
	Registry  *registry.Registry
	Lifecycle *lifecycle.Lifecycle
	Mux       *virtual.Multiplexer
	Sweeper   *sweeper.Sweeper
	Tracker   *sweeper.Tracker
	Processor Processor
	Rules     *config.ValidationRules
	RulesPath string
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health     HealthHandler
	Documents  DocumentHandler
	Processing ProcessingHandler
	Outputs    OutputHandler
	Admin      AdminHandler
	Presence   *PresenceHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	rules := newRulesHolder(deps.Rules, deps.RulesPath)
	return &Handlers{
		Health:     NewHealthHandler(deps.Version, deps.Store, deps.Registry),
		Documents:  NewDocumentHandler(deps.Store, deps.Registry, deps.Mux, rules),
		Processing: NewProcessingHandler(deps.Store, deps.Registry, deps.Lifecycle, deps.Processor),
		Outputs:    NewOutputHandler(deps.Store, deps.Mux),
		Admin:      NewAdminHandler(deps.Sweeper, rules),
		Presence:   NewPresenceHandler(deps.Tracker),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Presence channel (drives the retention sweeper)
	apiGroup.GET("/ws/presence", handlers.Presence.HandlePresence)

	// Document management
	docGroup := apiGroup.Group("/documents")
	docGroup.GET("", handlers.Documents.HandleListDocuments)
	docGroup.GET("/msgpack", handlers.Documents.HandleListDocumentsMsgpack)
	docGroup.POST("", handlers.Documents.HandleUploadDocument)
	docGroup.GET("/:id", handlers.Documents.HandleGetDocument)
	docGroup.DELETE("/:id", handlers.Documents.HandleDeleteDocument)
	docGroup.GET("/:id/download", handlers.Documents.HandleDownload)
	docGroup.GET("/:id/download-processed", handlers.Documents.HandleDownloadProcessed)
	docGroup.GET("/:id/preview", handlers.Documents.HandlePreview)
	docGroup.POST("/:id/process", handlers.Processing.HandleProcessDocument)

	// Processor write-back
	apiGroup.POST("/processing-results", handlers.Processing.HandleProcessingResult)

	// Synthesized documents and raw path downloads
	apiGroup.GET("/output-files", handlers.Outputs.HandleOutputFiles)
	apiGroup.GET("/form-documents", handlers.Outputs.HandleFormDocuments)
	apiGroup.GET("/download-template", handlers.Outputs.HandleDownloadTemplate)

	// Administration
	apiGroup.POST("/clear-memory", handlers.Admin.HandleClearMemory)
	apiGroup.GET("/config/validation-rules", handlers.Admin.HandleGetValidationRules)
	apiGroup.PUT("/config/validation-rules", handlers.Admin.HandleUpdateValidationRules)
}
