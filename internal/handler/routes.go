package handler

import (
	"net/http"

	"github.com/davrien/studyloop/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Per-route auth
// mode is the explicit optional-vs-required choice each endpoint makes.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	modules *service.ModuleService,
	conversations *service.ConversationService,
	loginLimiter *service.TokenBucket,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, loginLimiter, cookieSecure)
	moduleHandler := NewModuleHandler(modules)
	conversationHandler := NewConversationHandler(conversations)

	required := func(h http.HandlerFunc) http.Handler {
		return Authenticate(auth, AuthRequired, h)
	}
	optional := func(h http.HandlerFunc) http.Handler {
		return Authenticate(auth, AuthOptional, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", required(authHandler.HandleMe))

	mux.Handle("GET /api/modules", optional(moduleHandler.HandleList))
	mux.Handle("GET /api/modules/{slug}", optional(moduleHandler.HandleGet))

	mux.Handle("POST /api/conversations", required(conversationHandler.HandleStart))
	mux.Handle("GET /api/conversations", required(conversationHandler.HandleList))
	mux.Handle("POST /api/conversations/{id}/messages", required(conversationHandler.HandleAddMessage))
	mux.Handle("GET /api/conversations/{id}/export", required(conversationHandler.HandleExport))
}
