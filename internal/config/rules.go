// rules.go - YAML-loaded upload validation rules
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shenjiekoh/DocumentPortal/internal/models"
)

// ValidationRules restricts what the upload endpoint accepts. The mime list
// can only narrow the fixed schema allow-list, never extend it.
type ValidationRules struct {
	MaxUploadBytes   int64    `json:"maxUploadBytes" yaml:"max_upload_bytes"`
	AllowedMimeTypes []string `json:"allowedMimeTypes" yaml:"allowed_mime_types"`
}

// DefaultValidationRules returns rules accepting the full schema allow-list
// with a 100 MB cap.
func DefaultValidationRules() *ValidationRules {
	mimes := make([]string, 0, len(models.AllowedMimeTypes))
	for mt := range models.AllowedMimeTypes {
		mimes = append(mimes, mt)
	}
	return &ValidationRules{
		MaxUploadBytes:   100 * 1024 * 1024,
		AllowedMimeTypes: mimes,
	}
}

// LoadValidationRules reads rules from a YAML file, falling back to the
// defaults when the file does not exist.
func LoadValidationRules(path string) (*ValidationRules, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultValidationRules(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading validation rules: %w", err)
	}

	rules := &ValidationRules{}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parsing validation rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

// Save writes the rules to a YAML file.
func (r *ValidationRules) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling validation rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing validation rules: %w", err)
	}
	return nil
}

// Validate checks the rules are internally consistent and stay inside the
// schema allow-list.
func (r *ValidationRules) Validate() error {
	if r.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if len(r.AllowedMimeTypes) == 0 {
		return fmt.Errorf("allowed_mime_types must not be empty")
	}
	for _, mt := range r.AllowedMimeTypes {
		if !models.MimeAllowed(mt) {
			return fmt.Errorf("mime type %q is not uploadable", mt)
		}
	}
	return nil
}

// Allows reports whether the mime type passes the rules.
func (r *ValidationRules) Allows(mimeType string) bool {
	for _, mt := range r.AllowedMimeTypes {
		if mt == mimeType {
			return true
		}
	}
	return false
}
