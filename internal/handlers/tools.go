package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/bobmcallan/graphql-mcp/internal/models"
	"github.com/bobmcallan/graphql-mcp/internal/registry"
)

// ToolService is the subset of the saved-tool service exposed over REST.
type ToolService interface {
	List() []models.ToolSummary
	Show(name string) (*models.ToolDefinition, error)
	Delete(ctx context.Context, name string) error
}

// ToolsHandler serves read and delete access to saved tools for operators.
// Creating tools is only possible through the save_query_tool MCP tool.
type ToolsHandler struct {
	logger  *common.Logger
	service ToolService
}

// NewToolsHandler creates a new tools handler.
func NewToolsHandler(logger *common.Logger, service ToolService) *ToolsHandler {
	return &ToolsHandler{logger: logger, service: service}
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	tools := h.service.List()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(tools),
		"tools": tools,
	})
}

// Show handles GET /api/tools/{name}.
func (h *ToolsHandler) Show(w http.ResponseWriter, r *http.Request) {
	name := toolName(r)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "tool name is required")
		return
	}
	def, err := h.service.Show(name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, def)
}

// Delete handles DELETE /api/tools/{name}.
func (h *ToolsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := toolName(r)
	if name == "" {
		WriteError(w, http.StatusBadRequest, "tool name is required")
		return
	}
	if err := h.service.Delete(r.Context(), name); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.logger.Info().Str("tool", name).Msg("saved tool deleted via API")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ToolsHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, registry.ErrCoreTool):
		WriteError(w, http.StatusForbidden, err.Error())
	default:
		h.logger.Error().Err(err).Msg("tool API request failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func toolName(r *http.Request) string {
	return strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tools/"), "/")
}
