package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/service"
)

// AuthMiddleware resolves the session cookie to a user. A rejected session
// (bad token, deleted or banned user) is cleared. When the store fails the
// cookie is kept so the user is signed in again once it recovers. Either way
// the request continues anonymously.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.SessionUser(cookie.Value)
			if err != nil {
				if errors.Is(err, service.ErrAuth) {
					slog.Debug("session rejected", "error", err)
					authService.ClearSessionCookie(w)
				} else {
					slog.Error("failed to load session", "error", err, "path", r.URL.Path)
				}
				next.ServeHTTP(w, r)
				return
			}

			user.PasswordHash = ""
			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous callers to the login page.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAdmin redirects to the login page unless the caller is an admin.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ctxkeys.IsAdmin(r.Context()) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest sends signed-in users to their dashboard.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
