package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"expense-control-plane/backend/internal/identity"
	"expense-control-plane/backend/internal/logger"
	"expense-control-plane/backend/internal/platform/httpx"
	userdomain "expense-control-plane/backend/internal/user/domain"
)

// TokenVerifier validates a bearer token and returns the identity claims.
type TokenVerifier interface {
	Verify(token string) (userID, email, name string, err error)
}

// UserUpserter records the authenticated user in the local directory.
type UserUpserter interface {
	Upsert(ctx context.Context, u *userdomain.User) error
}

// AuthMiddleware authenticates requests with a bearer identity token and
// attaches the principal to the request context. The user row is upserted on
// every authenticated request so the directory tracks the identity
// provider's current email and name.
type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserUpserter
	now      func() time.Time
}

// NewAuthMiddleware returns an AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier TokenVerifier, users UserUpserter) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users, now: time.Now}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		userID, email, name, err := m.verifier.Verify(token)
		if err != nil {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			return
		}
		email = strings.ToLower(email)

		u := &userdomain.User{ID: userID, Email: email, Name: name, CreatedAt: m.now().UTC()}
		if err := m.users.Upsert(r.Context(), u); err != nil {
			logger.Error("failed to upsert authenticated user", "user_id", userID, "error", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		ctx := identity.WithPrincipal(r.Context(), identity.Principal{UserID: userID, Email: email, Name: name})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs each request with method, path, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
