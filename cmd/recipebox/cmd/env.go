package cmd

import (
	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/logger"
)

// setup loads configuration and installs the logger for a command.
func setup() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Environment: cfg.AppEnv,
		SentryDSN:   cfg.SentryDSN,
	})
	return cfg
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	return db.Init(cfg.DBDriver, cfg.DBConnection)
}
