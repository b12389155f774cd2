package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:3000")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "Recipe Box", cfg.AppName)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "recipe_app", cfg.MongoDatabase)
	assert.False(t, cfg.MongoRequired)
	assert.Equal(t, time.Hour, cfg.TokenPasswordResetExpiry)
	assert.Equal(t, EmailTransportLog, cfg.EmailTransport)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UploadsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:3000")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_PASSWORD_RESET_EXPIRY", "30m")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MONGO_REQUIRED", "true")
	t.Setenv("S3_BUCKET", "recipes")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.TokenPasswordResetExpiry)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.MongoRequired)
	assert.True(t, cfg.UploadsEnabled())
}

func TestEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BAD_DURATION", "soon")
	t.Setenv("BAD_INT", "many")
	t.Setenv("BAD_BOOL", "perhaps")

	assert.Equal(t, time.Minute, envDuration("BAD_DURATION", time.Minute))
	assert.Equal(t, 7, envInt("BAD_INT", 7))
	assert.True(t, envBool("BAD_BOOL", true))
}

func TestProductionProblem(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		problem bool
	}{
		{"log transport rejected", Config{EmailTransport: EmailTransportLog}, true},
		{"resend without key", Config{EmailTransport: EmailTransportResend}, true},
		{"resend with key", Config{EmailTransport: EmailTransportResend, ResendAPIKey: "re_123"}, false},
		{"smtp without host", Config{EmailTransport: EmailTransportSMTP}, true},
		{"smtp with host", Config{EmailTransport: EmailTransportSMTP, SMTPHost: "smtp.example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := productionProblem(&tt.cfg)
			if tt.problem {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestSanitized_DropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:            "Recipe Box",
		JWTSecret:          "secret",
		GoogleClientSecret: "google-secret",
		ResendAPIKey:       "re_123",
		SMTPPassword:       "smtp-pass",
		S3SecretKey:        "s3-secret",
		S3Bucket:           "recipes",
	}

	safe := cfg.Sanitized()

	assert.Equal(t, "Recipe Box", safe.AppName)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.GoogleClientSecret)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.SMTPPassword)
	assert.Empty(t, safe.S3SecretKey)
	assert.True(t, safe.UploadsEnabled())
}
