package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName holds the signed session token.
const SessionCookieName = "session"

type AuthService struct {
	userRepository           repository.UserRepository
	emailService             *EmailService
	jwtSecret                string
	isProduction             bool
	jwtExpiry                time.Duration
	tokenPasswordResetExpiry time.Duration
	now                      func() time.Time
}

func NewAuthService(
	userRepository repository.UserRepository,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	tokenPasswordResetExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:           userRepository,
		emailService:             emailService,
		jwtSecret:                jwtSecret,
		isProduction:             isProduction,
		jwtExpiry:                jwtExpiry,
		tokenPasswordResetExpiry: tokenPasswordResetExpiry,
		now:                      time.Now,
	}
}

type RegisterInput struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"omitempty,oneof=user admin"`
}

// Register creates an unverified account and mails its verification link.
// allowRole is true only when an admin creates the account; everyone else
// gets the user role whatever the form said.
//
// If the user was stored but the email could not be sent, the user is
// returned together with an error wrapping ErrEmailDelivery.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, allowRole bool) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if !allowRole {
		input.Role = ""
	}

	err := validation.Struct(input)
	if err != nil {
		if validation.IsRequiredError(err) {
			return nil, ErrMissingFields
		}
		return nil, ErrInvalidRole
	}

	err = validation.ValidateName(input.Name)
	if err != nil {
		return nil, ErrInvalidName
	}
	err = validation.ValidateEmail(input.Email)
	if err != nil {
		return nil, ErrInvalidEmail
	}
	err = validation.ValidatePassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	role := model.RoleUser
	if allowRole && input.Role != "" {
		role = input.Role
	}

	existing, err := s.userRepository.ByEmail(input.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := s.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &model.User{
		ID:                uuid.New().String(),
		Name:              input.Name,
		Email:             input.Email,
		PasswordHash:      hash,
		Role:              role,
		VerificationToken: &verificationToken,
		CreatedAt:         s.now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email, "role", user.Role)

	err = s.emailService.SendVerificationEmail(ctx, user.Email, user.Name, verificationToken)
	if err != nil {
		return user, err
	}
	return user, nil
}

// VerifyEmail consumes a verification token. Unknown and already used
// tokens are indistinguishable.
func (s *AuthService) VerifyEmail(token string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepository.ConsumeVerificationToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	slog.Info("email verified", "user_id", user.ID)
	return user, nil
}

// Login checks verification before the password, so an unverified account
// is refused whatever password is given.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Banned {
		return nil, ErrAccountBanned
	}

	return user, nil
}

// AuthenticateOAuth logs in or creates the account for a provider-verified
// email. New accounts always get the user role.
func (s *AuthService) AuthenticateOAuth(email, name string) (*model.User, error) {
	email = normalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(email)
	if err == nil {
		if user.Banned {
			return nil, ErrAccountBanned
		}
		if user.IsVerified {
			return user, nil
		}
		return s.claimUnverified(user)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	hash, err := s.placeholderHash()
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user = &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsVerified:   true,
		CreatedAt:    s.now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a race with a concurrent first login.
			return s.userRepository.ByEmail(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "email", email)
	return user, nil
}

// RequestPasswordReset stores a fresh reset token and mails the reset link.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	resetToken, err := s.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	expiry := s.now().Add(s.tokenPasswordResetExpiry)
	err = s.userRepository.SetResetToken(user.ID, resetToken, expiry)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	return s.emailService.SendPasswordResetEmail(ctx, user.Email, user.Name, resetToken)
}

func (s *AuthService) ResetPassword(token, password, confirmPassword string) (*model.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if password == "" || confirmPassword == "" {
		return nil, ErrMissingFields
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	err := validation.ValidatePassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepository.ConsumeResetToken(token, hash, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	slog.Info("password reset", "user_id", user.ID)
	return user, nil
}

// SessionUser resolves a session token to its user. Banned users resolve
// to ErrAccountBanned.
// claimUnverified hands an unverified account to the provider-verified
// owner. Whoever registered the address never proved it, so the password
// they chose is replaced and cannot be used to log in afterwards.
func (s *AuthService) claimUnverified(user *model.User) (*model.User, error) {
	hash, err := s.placeholderHash()
	if err != nil {
		return nil, err
	}

	claimed, err := s.userRepository.ClaimUnverified(user.ID, hash)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Verified or deleted since the lookup.
		claimed, err = s.userRepository.ByID(user.ID)
	}
	if err != nil {
		return nil, mapUserErr("claim account", err)
	}
	if claimed.Banned {
		return nil, ErrAccountBanned
	}

	slog.Info("unverified account claimed via oauth", "user_id", claimed.ID)
	return claimed, nil
}

// placeholderHash hashes a random password nobody knows.
func (s *AuthService) placeholderHash() (string, error) {
	placeholder, err := s.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	// bcrypt only reads 72 bytes; the hex token is 64.
	hash, err := s.HashPassword(placeholder)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// SessionUser resolves a session token to its user. Rejections (bad or
// expired token, deleted or banned user) wrap ErrAuth; any other error is a
// store failure and says nothing about the session itself.
func (s *AuthService) SessionUser(tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: no user id", ErrInvalidSession)
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSession, ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if user.Banned {
		return nil, ErrAccountBanned
	}
	return user, nil
}

// StartSession signs a session token for user and sets the session cookie.
func (s *AuthService) StartSession(w http.ResponseWriter, user *model.User) error {
	token, err := s.GenerateJWT(user)
	if err != nil {
		return err
	}
	s.SetSessionCookie(w, token, s.now().Add(s.jwtExpiry))
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateToken returns 256 random bits, hex encoded.
func (s *AuthService) GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.jwtExpiry).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
