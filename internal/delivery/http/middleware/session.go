package middleware

import (
	"context"
	"net/http"
)

type contextKey int

const userIDKey contextKey = 0

// Session resolves the caller's primary session to a user id. Primary
// authentication is an external collaborator; this middleware trusts the
// X-User-ID header set by the auth proxy in front of the service.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the authenticated user id, or "" when the request carried no
// primary session.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
