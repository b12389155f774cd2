package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EmailTransportLog    = "log"
	EmailTransportResend = "resend"
	EmailTransportSMTP   = "smtp"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	AppTagline   string
	SupportEmail string
	ContentPath  string

	// Relational store for users and videos (sqlite or pgx)
	DBDriver     string
	DBConnection string

	// Document store for recipes
	MongoURI      string
	MongoDatabase string
	MongoRequired bool // fail startup when the document store is unreachable

	// Security
	JWTSecret                string
	SessionExpiry            time.Duration
	TokenPasswordResetExpiry time.Duration

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Email
	EmailTransport string // "log", "resend" or "smtp"
	EmailFrom      string
	ResendAPIKey   string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string

	// Observability (optional)
	SentryDSN string

	// Storage for recipe images (optional, uploads are disabled without a bucket)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: MinIO, R2, DO Spaces, ...
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Recipe Box"),
		AppEnv:       envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:       envRequired("APP_URL"), // base URL for email links and OAuth redirects
		Port:         envString("PORT", "3000"),
		AppTagline:   envString("APP_TAGLINE", "Cook, share and watch"),
		SupportEmail: envString("SUPPORT_EMAIL", "hello@example.com"),
		ContentPath:  envString("CONTENT_PATH", "content"),

		// Relational store
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/recipebox.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Document store
		MongoURI:      envString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envString("MONGO_DATABASE", "recipe_app"),
		MongoRequired: envBool("MONGO_REQUIRED", false),

		// Security
		JWTSecret:                envRequired("JWT_SECRET"),
		SessionExpiry:            envDuration("SESSION_EXPIRY", 168*time.Hour),
		TokenPasswordResetExpiry: envDuration("TOKEN_PASSWORD_RESET_EXPIRY", 1*time.Hour),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		// Email
		EmailTransport: envString("EMAIL_TRANSPORT", EmailTransportLog),
		EmailFrom:      envString("EMAIL_FROM", "Recipe Box <noreply@example.com>"),
		ResendAPIKey:   envString("RESEND_API_KEY", ""),
		SMTPHost:       envString("SMTP_HOST", ""),
		SMTPPort:       envInt("SMTP_PORT", 587),
		SMTPUser:       envString("SMTP_USER", ""),
		SMTPPassword:   envString("SMTP_PASSWORD", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses to boot a production deployment that would
// silently drop verification and reset emails.
func validateProduction(cfg *Config) {
	problem := productionProblem(cfg)
	if problem != "" {
		slog.Error("invalid production configuration", "problem", problem,
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func productionProblem(cfg *Config) string {
	switch cfg.EmailTransport {
	case EmailTransportResend:
		if cfg.ResendAPIKey == "" {
			return "EMAIL_TRANSPORT=resend requires RESEND_API_KEY"
		}
	case EmailTransportSMTP:
		if cfg.SMTPHost == "" {
			return "EMAIL_TRANSPORT=smtp requires SMTP_HOST"
		}
	default:
		return "EMAIL_TRANSPORT must be resend or smtp in production"
	}
	return ""
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UploadsEnabled reports whether recipe images can be stored.
func (c *Config) UploadsEnabled() bool {
	return c.S3Bucket != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		AppTagline:   c.AppTagline,
		SupportEmail: c.SupportEmail,

		EmailFrom: c.EmailFrom,

		GoogleClientID: c.GoogleClientID,

		S3Bucket:   c.S3Bucket, // UploadsEnabled in templates
		S3Endpoint: c.S3Endpoint,
	}
}
