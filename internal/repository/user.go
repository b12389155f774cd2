package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrTokenNotFound  = errors.New("token not found")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	List() ([]*model.User, error)
	SetBanned(id string, banned bool) error
	SetRole(id, role string) error
	Delete(id string) error

	ConsumeVerificationToken(token string) (*model.User, error)
	ClaimUnverified(id, passwordHash string) (*model.User, error)
	SetResetToken(userID, token string, expiry time.Time) error
	ConsumeResetToken(token, passwordHash string, now time.Time) (*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, is_verified, banned, verification_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.Banned,
		user.VerificationToken,
		user.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.Get(user, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	err := r.db.Get(user, `SELECT * FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) List() ([]*model.User, error) {
	users := []*model.User{}
	err := r.db.Select(&users, `SELECT * FROM users ORDER BY created_at DESC`)
	return users, err
}

func (r *userRepository) SetBanned(id string, banned bool) error {
	result, err := r.db.Exec(`UPDATE users SET banned = $1 WHERE id = $2`, banned, id)
	return userAffected(result, err)
}

func (r *userRepository) SetRole(id, role string) error {
	result, err := r.db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, id)
	return userAffected(result, err)
}

func (r *userRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return userAffected(result, err)
}

// ConsumeVerificationToken marks the owning user verified and clears the
// token in one statement, so a token can only ever be used once.
func (r *userRepository) ConsumeVerificationToken(token string) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL
		WHERE verification_token = $1
		RETURNING *
	`

	err := r.db.Get(&user, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ClaimUnverified verifies a still-unverified account for an owner proven
// by another channel. The password and any pending verification token are
// replaced in the same statement. ErrUserNotFound when the row is gone or
// already verified.
func (r *userRepository) ClaimUnverified(id, passwordHash string) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, password_hash = $1
		WHERE id = $2 AND is_verified = FALSE
		RETURNING *
	`

	err := r.db.Get(&user, query, passwordHash, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetResetToken(userID, token string, expiry time.Time) error {
	result, err := r.db.Exec(`UPDATE users SET reset_token = $1, reset_token_expiry = $2 WHERE id = $3`, token, expiry.UTC(), userID)
	return userAffected(result, err)
}

// ConsumeResetToken stores the new password hash and clears the reset token
// only while the token is still unexpired. Exactly one concurrent caller wins.
func (r *userRepository) ConsumeResetToken(token, passwordHash string, now time.Time) (*model.User, error) {
	var user model.User
	query := `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL
		WHERE reset_token = $2
		AND reset_token_expiry > $3
		RETURNING *
	`

	err := r.db.Get(&user, query, passwordHash, token, now.UTC())
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation matches SQLite and PostgreSQL constraint errors.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func userAffected(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
