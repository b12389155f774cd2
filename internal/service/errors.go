package service

import (
	"errors"
	"fmt"
)

// Error classes. Handlers switch on these with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrAuth         = errors.New("authentication failed")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNotFound     = errors.New("not found")
)

var (
	ErrMissingFields      = fmt.Errorf("please fill all required fields: %w", ErrValidation)
	ErrPasswordMismatch   = fmt.Errorf("passwords do not match: %w", ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("invalid email address: %w", ErrValidation)
	ErrInvalidName        = fmt.Errorf("invalid name: %w", ErrValidation)
	ErrInvalidPassword    = fmt.Errorf("invalid password: %w", ErrValidation)
	ErrInvalidRole        = fmt.Errorf("invalid role: %w", ErrValidation)
	ErrInvalidVideoURL    = fmt.Errorf("video url must be an absolute http(s) URL: %w", ErrValidation)
	ErrEmailAlreadyExists = fmt.Errorf("email is already registered: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("incorrect email or password: %w", ErrAuth)
	ErrEmailNotVerified   = fmt.Errorf("email not verified: %w", ErrAuth)
	ErrAccountBanned      = fmt.Errorf("account banned: %w", ErrAuth)
	ErrInvalidSession     = fmt.Errorf("invalid session: %w", ErrAuth)
	ErrEmailNotFound      = errors.New("email not found")
	ErrEmailDelivery      = errors.New("email delivery failed")
	ErrUploadsDisabled    = errors.New("image uploads are not configured")
	ErrUserNotFound       = fmt.Errorf("user: %w", ErrNotFound)
	ErrRecipeNotFound     = fmt.Errorf("recipe: %w", ErrNotFound)
	ErrVideoNotFound      = fmt.Errorf("video: %w", ErrNotFound)
)
