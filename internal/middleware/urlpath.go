package middleware

import (
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
)

// WithURLPath records the request path so navigation can mark the active link.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), r.URL.Path)))
	})
}
