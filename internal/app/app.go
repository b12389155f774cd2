package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/service"
	"github.com/recipebox/recipebox/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// App owns every long-lived handle. Build it once with New and release
// it with Close.
type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	Mongo         *mongo.Client
	AuthService   *service.AuthService
	UserService   *service.UserService
	EmailService  *service.EmailService
	RecipeService *service.RecipeService
	VideoService  *service.VideoService

	closers []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	// Relational store
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = database

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Document store
	client, mongoDB, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoRequired)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	a.Mongo = client

	// Storage
	var store storage.Storage
	if cfg.UploadsEnabled() {
		s3Store, err := storage.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		store = s3Store
	}

	// Email
	sender, err := service.NewEmailSender(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize email: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	videoRepository := repository.NewVideoRepository(database)
	recipeRepository := repository.NewRecipeRepository(mongoDB)

	// Services
	a.EmailService = service.NewEmailService(sender, cfg.AppURL, cfg.AppName)
	a.AuthService = service.NewAuthService(
		userRepository,
		a.EmailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.SessionExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	a.UserService = service.NewUserService(userRepository)
	a.RecipeService = service.NewRecipeService(recipeRepository, store)
	a.VideoService = service.NewVideoService(videoRepository)

	return a, nil
}

// OnClose registers fn to run when the app is closed.
func (a *App) OnClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *App) Close() error {
	for _, fn := range a.closers {
		fn()
	}
	a.closers = nil

	return errors.Join(
		db.DisconnectMongo(a.Mongo),
		db.Close(a.DB),
	)
}
