package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/davrien/studyloop/internal/domain"
	"github.com/davrien/studyloop/internal/service"
)

// ModuleHandler serves the learning-module catalog.
type ModuleHandler struct {
	modules *service.ModuleService
}

// NewModuleHandler creates a new ModuleHandler.
func NewModuleHandler(modules *service.ModuleService) *ModuleHandler {
	return &ModuleHandler{modules: modules}
}

// HandleList returns the catalog. Auth is optional: when the caller is
// known, the response carries their user so clients can personalize.
// GET /api/modules
func (h *ModuleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	modules, err := h.modules.List(r.Context())
	if err != nil {
		slog.Error("list modules", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	resp := map[string]any{
		"modules": toModuleDTOs(modules),
		"user":    nil,
	}
	if user := UserFromContext(r.Context()); user != nil {
		resp["user"] = toUserDTO(user)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet returns one module by slug.
// GET /api/modules/{slug}
func (h *ModuleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	module, err := h.modules.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Module not found.")
			return
		}
		slog.Error("get module", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"module": toModuleDTO(module),
	})
}
