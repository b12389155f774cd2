package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/recipebox/recipebox/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
)

// CSRFProtection implements the double-submit cookie pattern: every
// non-safe request must echo the cookie's token in the form or a header.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := csrfToken(w, r)
		if err != nil {
			slog.Error("failed to generate csrf token", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		submitted := r.Header.Get(csrfHeader)
		if submitted == "" {
			// Parses urlencoded and multipart bodies alike.
			submitted = r.PostFormValue(csrfFormField)
		}

		if !validCSRFToken(token, submitted) {
			slog.Warn("csrf validation failed", "path", r.URL.Path, "method", r.Method, "ip", clientIP(r))
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func csrfToken(w http.ResponseWriter, r *http.Request) (string, error) {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value, nil
	}

	b := make([]byte, csrfTokenLen)
	_, err = rand.Read(b)
	if err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	cfg := ctxkeys.Config(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg != nil && cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
	return token, nil
}

func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
