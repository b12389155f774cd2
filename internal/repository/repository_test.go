package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}

func newUser(email string) *model.User {
	token := uuid.NewString()
	return &model.User{
		ID:                uuid.NewString(),
		Name:              "Ann",
		Email:             email,
		PasswordHash:      "hash",
		Role:              model.RoleUser,
		VerificationToken: &token,
		CreatedAt:         time.Now(),
	}
}
