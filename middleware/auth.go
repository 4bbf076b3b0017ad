package middleware

import (
	"log/slog"
	"net/http"

	"focusflow/respond"
	"focusflow/session"
)

// LoadSession attaches the caller's session, if any, to the request context.
// Anonymous requests pass through untouched.
func LoadSession(sessions *session.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := sessions.Get(r); ok {
				r = r.WithContext(session.NewContext(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests that LoadSession did not bind to a user.
func RequireSession(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); !ok {
				logger.Warn("unauthenticated request", "method", r.Method, "path", r.URL.Path)
				respond.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
