package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/davrien/studyloop/internal/handler"
	"github.com/davrien/studyloop/internal/repository/sqlite"
	"github.com/davrien/studyloop/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-ok!"

type testEnv struct {
	auth          *service.AuthService
	modules       *service.ModuleService
	conversations *service.ConversationService
	limiter       *service.TokenBucket
}

func newTestEnv(t *testing.T) testEnv {
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

	return testEnv{
		// Cost 4 keeps bcrypt fast in tests.
		auth:          service.NewAuthService(db.Users(), testJWTSecret, 4),
		modules:       modules,
		conversations: service.NewConversationService(db.Conversations(), db.Modules()),
		// Generous limiter so ordinary tests never trip it.
		limiter: service.NewTokenBucket(100, 100),
	}
}

func newTestMux(t *testing.T, env testEnv) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, env.auth, env.modules, env.conversations, env.limiter, false)
	return mux
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
