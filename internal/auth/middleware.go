package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

var claimsCtxKey = contextKey("claims")

// OptionalAuth attaches the caller's claims to the request context when a
// valid bearer token (or ?token= query parameter, for WebSocket upgrades)
// is present. Requests without a token continue as guests.
func OptionalAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrQuery(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := ParseToken(secret, tokenStr)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PlayerID returns the authenticated user id, or "" for guests.
func PlayerID(ctx context.Context) string {
	c, _ := ctx.Value(claimsCtxKey).(Claims)
	return c.UserID
}

func bearerOrQuery(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}
