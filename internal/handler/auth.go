package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/ui"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie   = "oauth_state"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	msgRegistered      = "Registration successful! Please check your email to verify your account."
	msgVerified        = "Email verified successfully! You can now log in."
	msgResetSent       = "Password reset email sent. Please check your inbox."
	msgResetDone       = "Password reset successful! You can now log in."
	msgMissingFields   = "Please fill all required fields"
	msgInvalidVerify   = "Invalid or expired verification token."
	msgInvalidReset    = "Invalid or expired password reset token."
	msgMissingReset    = "Invalid or missing password reset token."
	msgMissingVerify   = "Invalid or missing verification token."
	msgGoogleFailed    = "Google sign-in failed. Please try again."
	msgGoogleDisabled  = "Google sign-in is not configured."
	msgVerifyEmailSend = "Failed to send verification email. Please try again."
)

type AuthHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
	userInfoURL       string
	secureCookies     bool
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{
		authService:   authService,
		userInfoURL:   googleUserInfoURL,
		secureCookies: cfg.IsProduction(),
	}
	if cfg.GoogleClientID != "" {
		h.googleOAuthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimSuffix(cfg.AppURL, "/") + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}
	return h
}

// authMessage turns a service error into the text shown on auth forms.
// Unknown errors are logged by the caller and shown as a generic retry.
func authMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return msgMissingFields, true
	case errors.Is(err, service.ErrPasswordMismatch):
		return "Passwords do not match", true
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return "Email is already registered", true
	case errors.Is(err, service.ErrInvalidEmail):
		return "Please provide a valid email address", true
	case errors.Is(err, service.ErrInvalidName):
		return "Name must be at most 100 characters", true
	case errors.Is(err, service.ErrInvalidPassword):
		return "Password must not exceed 72 bytes", true
	case errors.Is(err, service.ErrInvalidRole):
		return "Please choose a valid role", true
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect email or password.", true
	case errors.Is(err, service.ErrEmailNotVerified):
		return "Please verify your email before logging in.", true
	case errors.Is(err, service.ErrAccountBanned):
		return "Your account has been suspended.", true
	case errors.Is(err, service.ErrEmailNotFound):
		return "Email not found", true
	}
	return "", false
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Register(ui.RegisterForm{}, ui.Flash{}))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	input := service.RegisterInput{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	form := ui.RegisterForm{Name: input.Name, Email: input.Email}

	_, err = h.authService.Register(r.Context(), input, false)
	switch {
	case err == nil:
		ui.Render(w, r, ui.Login(strings.TrimSpace(input.Email), ui.Success(msgRegistered)))
	case errors.Is(err, service.ErrEmailDelivery):
		slog.Error("verification email failed", "error", err, "email", input.Email)
		ui.Render(w, r, ui.Login(strings.TrimSpace(input.Email), ui.Failure(msgVerifyEmailSend)))
	default:
		msg, known := authMessage(err)
		if !known {
			slog.Error("registration failed", "error", err)
			msg = "An error occurred during registration. Please try again."
		}
		ui.Render(w, r, ui.Register(form, ui.Failure(msg)))
	}
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		ui.Render(w, r, ui.Login("", ui.Failure(msgMissingVerify)))
		return
	}

	user, err := h.authService.VerifyEmail(token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			ui.Render(w, r, ui.Login("", ui.Failure(msgInvalidVerify)))
			return
		}
		slog.Error("email verification failed", "error", err)
		ui.Render(w, r, ui.Login("", ui.Failure("An error occurred during email verification. Please try again.")))
		return
	}

	ui.Render(w, r, ui.Login(user.Email, ui.Success(msgVerified)))
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.Login("", ui.Flash{}))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	user, err := h.authService.Login(email, r.FormValue("password"))
	if err != nil {
		msg, known := authMessage(err)
		if !known {
			slog.Error("login failed", "error", err)
			msg = msgTryAgain
		}
		ui.Render(w, r, ui.Login(email, ui.Failure(msg)))
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.Render(w, r, ui.Login(email, ui.Failure(msgTryAgain)))
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.ForgotPassword(ui.Flash{}))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		ui.Render(w, r, ui.ForgotPassword(ui.Failure("Please enter your email")))
		return
	}

	err = h.authService.RequestPasswordReset(r.Context(), email)
	if err != nil {
		msg, known := authMessage(err)
		if !known {
			slog.Error("password reset request failed", "error", err)
			msg = msgTryAgain
			if errors.Is(err, service.ErrEmailDelivery) {
				msg = "Failed to send password reset email. Please try again."
			}
		}
		ui.Render(w, r, ui.ForgotPassword(ui.Failure(msg)))
		return
	}

	ui.Render(w, r, ui.ForgotPassword(ui.Success(msgResetSent)))
}

func (h *AuthHandler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		ui.Render(w, r, ui.Login("", ui.Failure(msgMissingReset)))
		return
	}
	ui.Render(w, r, ui.ResetPassword(token, ui.Flash{}))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	err := parseForm(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	token := r.FormValue("token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	user, err := h.authService.ResetPassword(token, r.FormValue("password"), r.FormValue("confirmPassword"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			ui.Render(w, r, ui.Login("", ui.Failure(msgInvalidReset)))
			return
		}
		msg, known := authMessage(err)
		if !known {
			slog.Error("password reset failed", "error", err)
			msg = msgTryAgain
		}
		ui.Render(w, r, ui.ResetPassword(token, ui.Failure(msg)))
		return
	}

	ui.Render(w, r, ui.Login(user.Email, ui.Success(msgResetDone)))
}

func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuthConfig == nil {
		ui.Render(w, r, ui.Login("", ui.Failure(msgGoogleDisabled)))
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		serverError(w, r, "Failed to start Google sign-in", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.googleOAuthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuthConfig == nil {
		ui.Render(w, r, ui.Login("", ui.Failure(msgGoogleDisabled)))
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		slog.Warn("oauth state mismatch", "ip", r.RemoteAddr)
		ui.Render(w, r, ui.Login("", ui.Failure(msgGoogleFailed)))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		ui.Render(w, r, ui.Login("", ui.Failure(msgGoogleFailed)))
		return
	}

	info, err := h.fetchGoogleUser(r, code)
	if err != nil {
		slog.Error("google sign-in failed", "error", err)
		ui.Render(w, r, ui.Login("", ui.Failure(msgGoogleFailed)))
		return
	}
	if !info.VerifiedEmail {
		ui.Render(w, r, ui.Login("", ui.Failure("Your Google email address is not verified.")))
		return
	}

	user, err := h.authService.AuthenticateOAuth(info.Email, info.Name)
	if err != nil {
		msg, known := authMessage(err)
		if !known {
			slog.Error("oauth login failed", "error", err)
			msg = msgGoogleFailed
		}
		ui.Render(w, r, ui.Login("", ui.Failure(msg)))
		return
	}

	err = h.authService.StartSession(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		ui.Render(w, r, ui.Login("", ui.Failure(msgTryAgain)))
		return
	}

	slog.Info("user logged in via google", "user_id", user.ID)
	http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
}

func (h *AuthHandler) fetchGoogleUser(r *http.Request, code string) (*googleUserInfo, error) {
	token, err := h.googleOAuthConfig.Exchange(r.Context(), code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	client := h.googleOAuthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var info googleUserInfo
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, errors.New("userinfo has no email")
	}
	return &info, nil
}

func generateOAuthState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
