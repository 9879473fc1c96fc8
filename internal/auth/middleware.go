package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Middleware resolves an optional bearer token to an owner tag on the
// request context. Requests without a token proceed unauthenticated (they
// see only shared data); requests with an invalid token are rejected.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			http.Error(w, "malformed authorization header", http.StatusUnauthorized)
			return
		}

		userID, err := s.VerifyToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

// UserID returns the authenticated owner tag, or nil for anonymous requests.
func UserID(ctx context.Context) *string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return &id
	}
	return nil
}
