package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                string     `db:"id"`
	Name              string     `db:"name"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password_hash"`
	Role              string     `db:"role"`
	IsVerified        bool       `db:"is_verified"`
	Banned            bool       `db:"banned"`
	VerificationToken *string    `db:"verification_token"`
	ResetToken        *string    `db:"reset_token"`
	ResetTokenExpiry  *time.Time `db:"reset_token_expiry"`
	CreatedAt         time.Time  `db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DashboardPath is where the user lands after logging in.
func (u *User) DashboardPath() string {
	if u.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

// Status is the account state shown to moderators.
func (u *User) Status() string {
	switch {
	case u.Banned:
		return "banned"
	case u.IsVerified:
		return "verified"
	default:
		return "unverified"
	}
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
