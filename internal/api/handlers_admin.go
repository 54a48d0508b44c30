// handlers_admin.go - Memory clearing and validation rules handlers
package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/shenjiekoh/DocumentPortal/internal/config"
	"github.com/shenjiekoh/DocumentPortal/internal/sweeper"
)

// rulesHolder guards the mutable validation rules shared between the
// upload path and the admin endpoints.
type rulesHolder struct {
	mu    sync.RWMutex
	rules *config.ValidationRules
	path  string
}

func newRulesHolder(rules *config.ValidationRules, path string) *rulesHolder {
	if rules == nil {
		rules = config.DefaultValidationRules()
	}
	return &rulesHolder{rules: rules, path: path}
}

func (h *rulesHolder) current() *config.ValidationRules {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rules
}

func (h *rulesHolder) replace(rules *config.ValidationRules) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rules = rules
	if h.path == "" {
		return nil
	}
	return rules.Save(h.path)
}

// AdminHandlerImpl implements the AdminHandler interface
type AdminHandlerImpl struct {
	sweeper *sweeper.Sweeper
	rules   *rulesHolder
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(sw *sweeper.Sweeper, rules *rulesHolder) AdminHandler {
	return &AdminHandlerImpl{sweeper: sw, rules: rules}
}

// HandleClearMemory invokes the retention sweep: every blob gone, registry
// empty, id counter rewound
func (h *AdminHandlerImpl) HandleClearMemory(c echo.Context) error {
	h.sweeper.Sweep()
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// HandleGetValidationRules returns the active upload validation rules
func (h *AdminHandlerImpl) HandleGetValidationRules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.rules.current())
}

// HandleUpdateValidationRules replaces the upload validation rules
func (h *AdminHandlerImpl) HandleUpdateValidationRules(c echo.Context) error {
	rules := &config.ValidationRules{}
	if err := c.Bind(rules); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := rules.Validate(); err != nil {
		return NewBadRequestError(err.Error(), nil)
	}

	if err := h.rules.replace(rules); err != nil {
		return NewInternalError("failed to persist validation rules", err)
	}
	return c.JSON(http.StatusOK, rules)
}
