package ctxkeys

import (
	"context"

	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/model"
)

type contextKey string

const (
	UserKey      contextKey = "user"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// IsAdmin reports whether the request is made by an authenticated admin.
func IsAdmin(ctx context.Context) bool {
	user := User(ctx)
	return user != nil && user.IsAdmin()
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
