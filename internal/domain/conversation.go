package domain

import (
	"context"
	"time"
)

// Conversation is a user's message log against one learning module.
type Conversation struct {
	ID        int64
	UserID    int64
	ModuleID  int64
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Message is a single entry in a conversation.
type Message struct {
	ID             int64
	ConversationID int64
	Role           string
	Body           string
	CreatedAt      time.Time
}

// ConversationRepository defines persistence operations for conversations
// and their messages.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *Conversation) error
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	ListByUser(ctx context.Context, userID int64) ([]Conversation, error)
	// AddMessage appends a message and bumps the conversation's UpdatedAt.
	AddMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, conversationID int64) ([]Message, error)
}
