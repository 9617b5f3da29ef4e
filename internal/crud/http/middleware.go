package crudhttp

import (
	"net/http"

	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/upstream"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/auth/login"

// RequireSession redirects visitors without an API session to the login
// page and attaches the API credential to the request context.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if !sess.Authenticated() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		ctx := upstream.WithSession(r.Context(), sess.Upstream())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
