package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/davrien/studyloop/internal/domain"
	"github.com/davrien/studyloop/internal/repository/sqlite"
	"github.com/davrien/studyloop/internal/service"
)

func newTestConversationService(t *testing.T) (*service.ConversationService, *service.AuthService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	modules := service.NewModuleService(db.Modules())
	if err := modules.SeedCatalog(context.Background()); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	conversations := service.NewConversationService(db.Conversations(), db.Modules())
	auth := service.NewAuthService(db.Users(), testJWTSecret, testBcryptCost)
	return conversations, auth
}

func registerTestUser(t *testing.T, auth *service.AuthService, email string) int64 {
	t.Helper()
	user, err := auth.Register(context.Background(), email, "password123", "Test", nil)
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return user.ID
}

func TestConversationService_Start(t *testing.T) {
	conversations, auth := newTestConversationService(t)
	ctx := context.Background()
	userID := registerTestUser(t, auth, "start@example.com")

	conversation, err := conversations.Start(ctx, userID, "study-foundations", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if conversation.ID == 0 {
		t.Fatal("expected conversation ID to be set")
	}
	// Empty title falls back to the module title.
	if conversation.Title == "" {
		t.Fatal("expected a default title")
	}
}

func TestConversationService_Start_UnknownModule(t *testing.T) {
	conversations, auth := newTestConversationService(t)
	ctx := context.Background()
	userID := registerTestUser(t, auth, "unknown@example.com")

	_, err := conversations.Start(ctx, userID, "no-such-module", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConversationService_AddMessage_Validation(t *testing.T) {
	conversations, auth := newTestConversationService(t)
	ctx := context.Background()
	userID := registerTestUser(t, auth, "msg@example.com")

	conversation, err := conversations.Start(ctx, userID, "study-foundations", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := conversations.AddMessage(ctx, userID, conversation.ID, "system", "hi"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad role, got %v", err)
	}
	if _, err := conversations.AddMessage(ctx, userID, conversation.ID, domain.MessageRoleUser, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty body, got %v", err)
	}

	message, err := conversations.AddMessage(ctx, userID, conversation.ID, domain.MessageRoleUser, "How do I start?")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if message.ID == 0 {
		t.Fatal("expected message ID to be set")
	}
}

// Another user's conversation reads as not-found, never as forbidden,
// so conversation ids cannot be probed.
func TestConversationService_OwnershipHidden(t *testing.T) {
	conversations, auth := newTestConversationService(t)
	ctx := context.Background()
	owner := registerTestUser(t, auth, "owner@example.com")
	intruder := registerTestUser(t, auth, "intruder@example.com")

	conversation, err := conversations.Start(ctx, owner, "study-foundations", "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := conversations.AddMessage(ctx, intruder, conversation.ID, domain.MessageRoleUser, "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign AddMessage, got %v", err)
	}
	if _, err := conversations.Export(ctx, intruder, conversation.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign Export, got %v", err)
	}
}

func TestConversationService_Export(t *testing.T) {
	conversations, auth := newTestConversationService(t)
	ctx := context.Background()
	userID := registerTestUser(t, auth, "export@example.com")

	conversation, err := conversations.Start(ctx, userID, "critical-reading", "Reading Qs")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, body := range []string{"first", "second"} {
		if _, err := conversations.AddMessage(ctx, userID, conversation.ID, domain.MessageRoleUser, body); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	export, err := conversations.Export(ctx, userID, conversation.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if export.ExportID == "" {
		t.Fatal("expected an export id")
	}
	if export.ExportedAt.IsZero() {
		t.Fatal("expected an export timestamp")
	}
	if export.Conversation.ID != conversation.ID {
		t.Fatalf("expected conversation %d, got %d", conversation.ID, export.Conversation.ID)
	}
	if len(export.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(export.Messages))
	}
	if export.Messages[0].Body != "first" || export.Messages[1].Body != "second" {
		t.Fatal("expected messages in insertion order")
	}
}

func TestConversationService_ListForUser(t *testing.T) {
	conversations, auth := newTestConversationService(t)
	ctx := context.Background()
	userID := registerTestUser(t, auth, "list@example.com")

	for _, slug := range []string{"study-foundations", "critical-reading"} {
		if _, err := conversations.Start(ctx, userID, slug, ""); err != nil {
			t.Fatalf("Start %s: %v", slug, err)
		}
	}

	list, err := conversations.ListForUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list))
	}
}
