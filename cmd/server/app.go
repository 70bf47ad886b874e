package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/topster/topster-api/internal/api"
	apiMiddleware "github.com/topster/topster-api/internal/api/middleware"
	"github.com/topster/topster-api/internal/config"
	"github.com/topster/topster-api/internal/platform/mail"
	"github.com/topster/topster-api/internal/platform/oauth"
	"github.com/topster/topster-api/internal/platform/postgres"
	"github.com/topster/topster-api/internal/platform/redis"
	"github.com/topster/topster-api/internal/service"
	"github.com/topster/topster-api/internal/service/auth"
	"github.com/topster/topster-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger      *slog.Logger
	db          *sql.DB
	redisClient goredis.UniversalClient

	userStore store.UserStore
	cache     store.Cache

	jwtService  auth.JWTService
	hasher      auth.PasswordHasher
	oauthClient *oauth.Client
	mailer      mail.Mailer

	userService   service.UserService
	socialService service.SocialLoginService

	userHandler    *api.UserHandler
	authMiddleware *apiMiddleware.AuthMiddleware
}

// newApplication creates a new application instance with all dependencies initialized.
// The database, cache client and outbound HTTP client are established by the caller;
// the application takes ownership of db and redisClient and closes them in cleanup.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	redisClient goredis.UniversalClient,
	httpClient *http.Client,
) (*application, error) {
	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.cache = redis.NewCache(redisClient)

	app.oauthClient = oauth.NewClient(httpClient, cfg.OAuth2.Providers)
	app.mailer = mail.NewLogMailer(logger.With("component", "mailer"))

	app.userService, err = service.NewUserService(service.UserServiceDeps{
		UserStore: app.userStore,
		Cache:     app.cache,
		Hasher:    app.hasher,
		Tokens:    app.jwtService,
		Mailer:    app.mailer,
		DB:        db,
		Logger:    logger,
	}, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.socialService, err = service.NewSocialLoginService(
		app.oauthClient,
		app.userStore,
		app.hasher,
		app.jwtService,
		db,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create social login service: %w", err)
	}

	app.userHandler = api.NewUserHandler(app.userService, app.socialService)
	app.authMiddleware = apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("Error closing cache connection", "error", err)
		}
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("Application shutdown completed")
}
