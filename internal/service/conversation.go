package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davrien/studyloop/internal/domain"
)

// ConversationService manages per-user conversation logs and their export.
type ConversationService struct {
	conversations domain.ConversationRepository
	modules       domain.ModuleRepository
}

// NewConversationService creates a new ConversationService.
func NewConversationService(conversations domain.ConversationRepository, modules domain.ModuleRepository) *ConversationService {
	return &ConversationService{conversations: conversations, modules: modules}
}

// ConversationExport is the envelope written by the export endpoint.
type ConversationExport struct {
	ExportID     string
	ExportedAt   time.Time
	Conversation domain.Conversation
	Messages     []domain.Message
}

// Start opens a new conversation for the user against the named module.
func (s *ConversationService) Start(ctx context.Context, userID int64, moduleSlug, title string) (*domain.Conversation, error) {
	module, err := s.modules.GetBySlug(ctx, moduleSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown module %q", domain.ErrInvalidInput, moduleSlug)
		}
		return nil, fmt.Errorf("get module: %w", err)
	}

	if title == "" {
		title = module.Title
	}

	conversation := &domain.Conversation{
		UserID:   userID,
		ModuleID: module.ID,
		Title:    title,
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

// ListForUser returns the user's conversations, most recently active first.
func (s *ConversationService) ListForUser(ctx context.Context, userID int64) ([]domain.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

// AddMessage appends a message to a conversation the user owns.
func (s *ConversationService) AddMessage(ctx context.Context, userID, conversationID int64, role, body string) (*domain.Message, error) {
	if role != domain.MessageRoleUser && role != domain.MessageRoleAssistant {
		return nil, fmt.Errorf("%w: role must be %q or %q", domain.ErrInvalidInput, domain.MessageRoleUser, domain.MessageRoleAssistant)
	}
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", domain.ErrInvalidInput)
	}

	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ConversationID: conversationID,
		Role:           role,
		Body:           body,
	}
	if err := s.conversations.AddMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}
	return message, nil
}

// Export bundles a conversation the user owns with all its messages.
func (s *ConversationService) Export(ctx context.Context, userID, conversationID int64) (*ConversationExport, error) {
	conversation, err := s.ownedConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.conversations.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return &ConversationExport{
		ExportID:     uuid.NewString(),
		ExportedAt:   time.Now().UTC(),
		Conversation: *conversation,
		Messages:     messages,
	}, nil
}

// ownedConversation loads the conversation and checks ownership. Another
// user's conversation reads as not-found so ids can't be probed.
func (s *ConversationService) ownedConversation(ctx context.Context, userID, conversationID int64) (*domain.Conversation, error) {
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return conversation, nil
}
