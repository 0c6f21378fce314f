package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davrien/studyloop/internal/domain"
	"github.com/davrien/studyloop/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMode selects how Authenticate treats a request with no resolvable
// identity: AuthOptional lets it through anonymously, AuthRequired
// answers 401.
type AuthMode int

const (
	AuthOptional AuthMode = iota
	AuthRequired
)

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// Authenticate resolves the request's bearer credential to a user and
// injects it into the request context. A missing, malformed, or expired
// credential, or one referring to a user that no longer exists, resolves
// to "no identity" rather than an error; mode decides whether that means
// anonymous passthrough or a 401. Storage faults surface as 500.
func Authenticate(auth *service.AuthService, mode AuthMode, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := resolveIdentity(r, auth)
		if err != nil {
			slog.Error("resolve identity", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
			return
		}

		if user == nil {
			if mode == AuthRequired {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveIdentity maps the presented credential to a user. It returns
// (nil, nil) for every expected no-identity outcome; only infrastructure
// failures return an error.
func resolveIdentity(r *http.Request, auth *service.AuthService) (*domain.User, error) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, nil
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		return nil, nil
	}

	user, err := auth.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// bearerToken extracts the credential from the Authorization header or,
// failing that, the auth_token cookie browsers carry.
func bearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found && token != "" {
			return token, true
		}
		return "", false
	}
	cookie, err := r.Cookie("auth_token")
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SecurityHeaders sets a conservative set of browser security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with a generated request id, which is
// also echoed in the X-Request-ID response header.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
