package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

var dialects = map[string]string{
	"sqlite": "sqlite3",
	"pgx":    "postgres",
}

func dialectFor(driver string) string {
	if d, ok := dialects[driver]; ok {
		return d
	}
	return driver
}

func setupGoose(driver string) error {
	err := goose.SetDialect(dialectFor(driver))
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	return nil
}

func RunMigrations(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err == nil {
		slog.Info("migrations applied", "version", version)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Down(db, ".")
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}
