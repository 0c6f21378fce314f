package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/davrien/studyloop/internal/domain"
	"github.com/davrien/studyloop/internal/repository/sqlite"
)

func seedUserAndModule(t *testing.T, db *sqlite.DB) (int64, int64) {
	t.Helper()
	ctx := context.Background()

	user := &domain.User{Email: "conv@example.com", PasswordHash: "hash"}
	if err := sqlite.NewUserRepository(db).Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	module := &domain.Module{Slug: "algebra", Title: "Algebra", Position: 1}
	if err := sqlite.NewModuleRepository(db).Upsert(ctx, module); err != nil {
		t.Fatalf("upsert module: %v", err)
	}
	return user.ID, module.ID
}

func TestConversationRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewConversationRepository(db)
	ctx := context.Background()
	userID, moduleID := seedUserAndModule(t, db)

	conversation := &domain.Conversation{UserID: userID, ModuleID: moduleID, Title: "First session"}
	if err := repo.Create(ctx, conversation); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if conversation.ID == 0 {
		t.Fatal("expected conversation ID to be set")
	}

	found, err := repo.GetByID(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Title != "First session" {
		t.Fatalf("expected title %q, got %q", "First session", found.Title)
	}
	if found.UserID != userID {
		t.Fatalf("expected user id %d, got %d", userID, found.UserID)
	}
}

func TestConversationRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewConversationRepository(db)

	_, err := repo.GetByID(context.Background(), 12345)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConversationRepository_Messages(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewConversationRepository(db)
	ctx := context.Background()
	userID, moduleID := seedUserAndModule(t, db)

	conversation := &domain.Conversation{UserID: userID, ModuleID: moduleID}
	if err := repo.Create(ctx, conversation); err != nil {
		t.Fatalf("Create: %v", err)
	}

	bodies := []string{"hello", "hi there", "question"}
	roles := []string{domain.MessageRoleUser, domain.MessageRoleAssistant, domain.MessageRoleUser}
	for i := range bodies {
		msg := &domain.Message{ConversationID: conversation.ID, Role: roles[i], Body: bodies[i]}
		if err := repo.AddMessage(ctx, msg); err != nil {
			t.Fatalf("AddMessage %d: %v", i, err)
		}
		if msg.ID == 0 {
			t.Fatal("expected message ID to be set")
		}
	}

	messages, err := repo.ListMessages(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, m := range messages {
		if m.Body != bodies[i] {
			t.Fatalf("expected message %d body %q, got %q", i, bodies[i], m.Body)
		}
	}

	// AddMessage bumps the conversation's updated_at.
	found, err := repo.GetByID(ctx, conversation.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.UpdatedAt.Before(found.CreatedAt) {
		t.Fatal("expected UpdatedAt >= CreatedAt after messages")
	}
}

func TestConversationRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewConversationRepository(db)
	ctx := context.Background()
	userID, moduleID := seedUserAndModule(t, db)

	other := &domain.User{Email: "other@example.com", PasswordHash: "hash"}
	if err := sqlite.NewUserRepository(db).Create(ctx, other); err != nil {
		t.Fatalf("create other user: %v", err)
	}

	mine := &domain.Conversation{UserID: userID, ModuleID: moduleID, Title: "mine"}
	if err := repo.Create(ctx, mine); err != nil {
		t.Fatalf("Create mine: %v", err)
	}
	theirs := &domain.Conversation{UserID: other.ID, ModuleID: moduleID, Title: "theirs"}
	if err := repo.Create(ctx, theirs); err != nil {
		t.Fatalf("Create theirs: %v", err)
	}

	conversations, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations))
	}
	if conversations[0].Title != "mine" {
		t.Fatalf("expected own conversation, got %q", conversations[0].Title)
	}
}
