package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/rahulkpr2510/droply/internal/platform/crypto"
)

// CtxKey is a custom type for context keys to avoid collisions.
type CtxKey string

const (
	// UserIDKey is the key for storing the user's ID in the request context.
	UserIDKey CtxKey = "userID"
	// EmailKey is the key for storing the user's email in the request context.
	EmailKey CtxKey = "email"
)

// accessTokenCookie is the cookie set on session activation and read back by
// the auth middleware.
const accessTokenCookie = "access-token"

// AuthMiddleware is a struct that holds the dependencies for our auth middleware.
type AuthMiddleware struct {
	tokenSvc crypto.TokenGenerator
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(tokenSvc crypto.TokenGenerator) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// RequireAuth is the main authentication middleware. It resolves the caller's
// verified identity from the access token (cookie, or bearer header for
// non-browser clients) and adds it to the request context. Requests without a
// verifiable identity are rejected before any handler runs.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
			return
		}

		claims, err := m.tokenSvc.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError("Unauthorized"))
			return
		}

		// Add user information to the request context for downstream handlers.
		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest extracts the access token from the cookie or, failing
// that, from an Authorization: Bearer header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// GetUserIDFromContext is a helper function to safely retrieve the caller's
// verified identity from the context.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
