package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/recipebox/recipebox/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppName:                  "Recipe Box",
		AppEnv:                   "development",
		AppURL:                   "http://localhost:3000",
		DBDriver:                 "sqlite",
		DBConnection:             filepath.Join(t.TempDir(), "app.db"),
		MongoURI:                 "mongodb://127.0.0.1:1",
		MongoDatabase:            "recipe_app_test",
		JWTSecret:                "test-secret",
		SessionExpiry:            time.Hour,
		TokenPasswordResetExpiry: time.Hour,
		EmailTransport:           config.EmailTransportLog,
	}
}

func TestNew_WiresServicesWithoutUploads(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the mongo ping timeout")
	}

	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)

	closed := false
	a.OnClose(func() { closed = true })

	assert.NotNil(t, a.AuthService)
	assert.NotNil(t, a.UserService)
	assert.NotNil(t, a.VideoService)
	assert.False(t, a.RecipeService.UploadsEnabled())

	require.NoError(t, a.Close())
	assert.True(t, closed)
}

func TestNew_RequiredMongoFails(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the mongo ping timeout")
	}

	cfg := testConfig(t)
	cfg.MongoRequired = true

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
