package middleware

import (
	"fmt"
	"net/http"
)

// SecurityHeaders sets browser hardening headers. Inline scripts are only
// allowed with the request's nonce; images may come from any https origin
// because recipe pictures are often hot-linked.
func SecurityHeaders(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), geolocation=(), microphone=(), payment=(), usb=()")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")

			scriptSrc := "'self'"
			if nonce := Nonce(r.Context()); nonce != "" {
				scriptSrc = fmt.Sprintf("'self' 'nonce-%s'", nonce)
			}
			h.Set("Content-Security-Policy", "default-src 'self'; "+
				"script-src "+scriptSrc+"; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"frame-ancestors 'none'; "+
				"base-uri 'self'; "+
				"form-action 'self' https://accounts.google.com")

			if production && (r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https") {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
