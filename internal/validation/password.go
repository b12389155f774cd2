package validation

import "errors"

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 bytes")
)

// ValidatePassword only enforces presence and the bcrypt input limit;
// bcrypt would otherwise silently truncate longer passwords.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}
