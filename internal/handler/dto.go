package handler

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/davrien/studyloop/internal/domain"
	"github.com/davrien/studyloop/internal/service"
)

// UserDTO is the JSON representation of a user. The password hash never
// leaves the domain layer.
type UserDTO struct {
	ID          int64           `json:"id"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Onboarding  json.RawMessage `json:"onboarding,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Onboarding:  u.Onboarding,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// ModuleDTO is the JSON representation of a learning module. Summary is
// the raw markdown; SummaryHTML is its rendered form.
type ModuleDTO struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	SummaryHTML string `json:"summaryHtml"`
	Position    int    `json:"position"`
	CreatedAt   string `json:"createdAt"`
}

func toModuleDTO(m *domain.Module) ModuleDTO {
	html, err := service.RenderMarkdown(m.Summary)
	if err != nil {
		slog.Error("render module summary", "slug", m.Slug, "error", err)
	}
	return ModuleDTO{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Summary:     m.Summary,
		SummaryHTML: html,
		Position:    m.Position,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

func toModuleDTOs(modules []domain.Module) []ModuleDTO {
	dtos := make([]ModuleDTO, len(modules))
	for i := range modules {
		dtos[i] = toModuleDTO(&modules[i])
	}
	return dtos
}

// ConversationDTO is the JSON representation of a conversation.
type ConversationDTO struct {
	ID        int64  `json:"id"`
	ModuleID  int64  `json:"moduleId"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toConversationDTO(c *domain.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:        c.ID,
		ModuleID:  c.ModuleID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func toConversationDTOs(conversations []domain.Conversation) []ConversationDTO {
	dtos := make([]ConversationDTO, len(conversations))
	for i := range conversations {
		dtos[i] = toConversationDTO(&conversations[i])
	}
	return dtos
}

// MessageDTO is the JSON representation of a conversation message.
type MessageDTO struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

func toMessageDTO(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Role:      m.Role,
		Body:      m.Body,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageDTOs(messages []domain.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i := range messages {
		dtos[i] = toMessageDTO(&messages[i])
	}
	return dtos
}

// ExportDTO is the downloadable conversation export envelope.
type ExportDTO struct {
	ExportID     string          `json:"exportId"`
	ExportedAt   string          `json:"exportedAt"`
	Conversation ConversationDTO `json:"conversation"`
	Messages     []MessageDTO    `json:"messages"`
}

func toExportDTO(e *service.ConversationExport) ExportDTO {
	return ExportDTO{
		ExportID:     e.ExportID,
		ExportedAt:   e.ExportedAt.Format(time.RFC3339),
		Conversation: toConversationDTO(&e.Conversation),
		Messages:     toMessageDTOs(e.Messages),
	}
}
