package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shenjiekoh/DocumentPortal/internal/api"
	"github.com/shenjiekoh/DocumentPortal/internal/blobstore"
	"github.com/shenjiekoh/DocumentPortal/internal/config"
	"github.com/shenjiekoh/DocumentPortal/internal/lifecycle"
	"github.com/shenjiekoh/DocumentPortal/internal/processor"
	"github.com/shenjiekoh/DocumentPortal/internal/registry"
	"github.com/shenjiekoh/DocumentPortal/internal/sweeper"
	"github.com/shenjiekoh/DocumentPortal/internal/virtual"
	"github.com/shenjiekoh/DocumentPortal/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "DocumentPortal.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	// Initialize the blob store, with the DuckDB results mirror if enabled
	var store *blobstore.Store
	if cfg.Storage.EnableResultsMirror {
		mirror, err := blobstore.OpenMirror(cfg.Storage.ResultsMirrorFile)
		if err != nil {
			fmt.Printf("Failed to open results mirror: %v\n", err)
			os.Exit(1)
		}
		defer mirror.Close()

		store, err = blobstore.NewWithMirror(mirror)
		if err != nil {
			fmt.Printf("Failed to restore results mirror: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Restored %d mirrored results blobs\n", store.Len())
	} else {
		store = blobstore.New()
	}

	// Core components
	reg := registry.New(store)
	lc := lifecycle.New(reg)
	mux := virtual.New(store)
	sw := sweeper.New(store, reg)
	tracker := sweeper.NewTracker(sw)
	proc := processor.New(
		cfg.Processing.ProcessorURL,
		time.Duration(cfg.Processing.TimeoutMinutes)*time.Minute,
		store,
		lc,
	)

	// The store starts each process lifetime empty; sweep clears anything a
	// mirror restore brought back only when mirroring is off.
	if !cfg.Storage.EnableResultsMirror {
		sw.Sweep()
	}

	// Load upload validation rules
	rules, err := config.LoadValidationRules(cfg.Storage.ValidationRulesFile)
	if err != nil {
		fmt.Printf("Warning: failed to load validation rules, using defaults: %v\n", err)
		rules = config.DefaultValidationRules()
	}

	handlers := api.NewHandlers(&api.Dependencies{
		Store:     store,
		Registry:  reg,
		Lifecycle: lc,
		Mux:       mux,
		Sweeper:   sw,
		Tracker:   tracker,
		Processor: proc,
		Rules:     rules,
		RulesPath: cfg.Storage.ValidationRulesFile,
		Version:   Version,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.NewErrorHandler(cfg.Advanced.VerboseErrors)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" || strings.HasPrefix(path, "/api/ws/")
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if cfg.Advanced.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Advanced.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
			},
		}))
	}

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handlers)

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded frontend from binary")
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("Document Portal Server\n")
	fmt.Printf("  Version:    %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Config:     %s\n", configPath)
	fmt.Printf("  Listen:     http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  Processor:  %s\n", cfg.Processing.ProcessorURL)
	if cfg.Storage.EnableResultsMirror {
		fmt.Printf("  Mirror:     %s\n", cfg.Storage.ResultsMirrorFile)
	}
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}
