package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/davrien/studyloop/internal/domain"
	"github.com/davrien/studyloop/internal/service"
)

// ConversationHandler serves per-user conversation logs. All routes run
// behind required auth.
type ConversationHandler struct {
	conversations *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// HandleStart opens a new conversation.
// POST /api/conversations
// Request:  {"moduleSlug":"...","title":"..."}
// Response: 201 {"conversation": {...}}
func (h *ConversationHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		ModuleSlug string `json:"moduleSlug"`
		Title      string `json:"title"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	conversation, err := h.conversations.Start(r.Context(), user.ID, req.ModuleSlug, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("start conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"conversation": toConversationDTO(conversation),
	})
}

// HandleList returns the caller's conversations.
// GET /api/conversations
func (h *ConversationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	conversations, err := h.conversations.ListForUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list conversations", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": toConversationDTOs(conversations),
	})
}

// HandleAddMessage appends a message to a conversation the caller owns.
// POST /api/conversations/{id}/messages
// Request:  {"role":"user","body":"..."}
// Response: 201 {"message": {...}}
func (h *ConversationHandler) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Conversation not found.")
		return
	}

	var req struct {
		Role string `json:"role"`
		Body string `json:"body"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	message, err := h.conversations.AddMessage(r.Context(), user.ID, id, req.Role, req.Body)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("add message", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": toMessageDTO(message),
	})
}

// HandleExport downloads a conversation with all its messages as JSON.
// GET /api/conversations/{id}/export
func (h *ConversationHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Conversation not found.")
		return
	}

	export, err := h.conversations.Export(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found.")
			return
		}
		slog.Error("export conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "conversation-"+export.ExportID+".json"))
	writeJSON(w, http.StatusOK, toExportDTO(export))
}
