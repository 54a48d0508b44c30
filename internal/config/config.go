// Package config provides XML-based configuration for the portal, with
// environment overrides and an auto-generated default file on first run.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig is the root XML configuration structure.
type AppConfig struct {
	XMLName xml.Name `xml:"DocumentPortal"`

	Server     ServerConfig     `xml:"Server"`
	Storage    StorageConfig    `xml:"Storage"`
	Processing ProcessingConfig `xml:"Processing"`
	Advanced   AdvancedConfig   `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains blob store settings. The store itself is
// in-memory; the mirror is the only thing that touches disk.
type StorageConfig struct {
	DataDirectory       string `xml:"DataDirectory"`
	EnableResultsMirror bool   `xml:"EnableResultsMirror"`
	ResultsMirrorFile   string `xml:"ResultsMirrorFile"`
	ValidationRulesFile string `xml:"ValidationRulesFile"`
}

// ProcessingConfig contains external transformer settings.
type ProcessingConfig struct {
	ProcessorURL   string `xml:"ProcessorURL"`
	TimeoutMinutes int    `xml:"TimeoutMinutes"`
}

// AdvancedConfig contains tuning options.
type AdvancedConfig struct {
	EnableRequestLogging bool `xml:"EnableRequestLogging"`
	VerboseErrors        bool `xml:"VerboseErrors"`
	EnableCompression    bool `xml:"EnableCompression"`
	CompressionLevel     int  `xml:"CompressionLevel"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "100M",
		},
		Storage: StorageConfig{
			DataDirectory:       "./data",
			EnableResultsMirror: false,
			ResultsMirrorFile:   "./data/results-mirror.duckdb",
			ValidationRulesFile: "./data/validation-rules.yaml",
		},
		Processing: ProcessingConfig{
			ProcessorURL:   "http://127.0.0.1:5001/process",
			TimeoutMinutes: 3,
		},
		Advanced: AdvancedConfig{
			EnableRequestLogging: true,
			VerboseErrors:        false,
			EnableCompression:    true,
			CompressionLevel:     5,
		},
	}
}

// LoadConfig loads configuration from an XML file, writing the defaults out
// on first run.
func LoadConfig(configPath string) (*AppConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.applyEnvironmentOverrides()
		cfg.resolvePaths(filepath.Dir(configPath))
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AppConfig{}
	if err := xml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(configPath))

	return cfg, nil
}

// Save writes the configuration to an XML file.
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Document Portal Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides lets environment variables override file values.
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
	if url := os.Getenv("PROCESSOR_URL"); url != "" {
		c.Processing.ProcessorURL = url
	}
}

// resolvePaths converts relative paths to absolute based on the config file
// location.
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.ResultsMirrorFile) {
		c.Storage.ResultsMirrorFile = filepath.Join(configDir, c.Storage.ResultsMirrorFile)
	}
	if !filepath.IsAbs(c.Storage.ValidationRulesFile) {
		c.Storage.ValidationRulesFile = filepath.Join(configDir, c.Storage.ValidationRulesFile)
	}
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates the data directory.
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.DataDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.DataDirectory, err)
	}
	return nil
}
