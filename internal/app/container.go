package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/tiendapos/tiendapos/internal/auth"
	"github.com/tiendapos/tiendapos/internal/observability"
	"github.com/tiendapos/tiendapos/internal/platform/db"
	"github.com/tiendapos/tiendapos/internal/products"
	"github.com/tiendapos/tiendapos/internal/purchases"
	"github.com/tiendapos/tiendapos/internal/sales"
	"github.com/tiendapos/tiendapos/internal/settings"
	"github.com/tiendapos/tiendapos/internal/shared"
	"github.com/tiendapos/tiendapos/internal/users"
	"github.com/tiendapos/tiendapos/jobs"
)

// OpenStorage connects to the database selected by DB_DRIVER. The returned
// function releases the connection.
func OpenStorage(ctx context.Context, cfg *Config) (db.Client, func(), error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		return db.NewPGClient(pool), pool.Close, nil
	case DriverSQLite:
		client, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Container holds the repositories and services built over one storage client.
type Container struct {
	Logger    *slog.Logger
	DB        db.Client
	Products  *products.Repository
	Purchases *purchases.Repository
	Sales     *sales.Repository
	Settings  *settings.Repository
	Users     *users.Service
	Auth      *auth.Service
	Guard     *auth.Middleware
}

// NewContainer wires the domain over client. redisClient may be nil, in which
// case logout does not revoke tokens server-side.
func NewContainer(cfg *Config, logger *slog.Logger, client db.Client, redisClient *redis.Client) *Container {
	if logger == nil {
		logger = slog.Default()
	}
	userRepo := users.NewRepository(client)
	var revoker auth.Revoker
	if redisClient != nil {
		revoker = auth.NewRedisRevoker(redisClient)
	}
	authService := auth.NewService(userRepo, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), revoker)
	return &Container{
		Logger:    logger,
		DB:        client,
		Products:  products.NewRepository(client),
		Purchases: purchases.NewRepository(client),
		Sales:     sales.NewRepository(client),
		Settings:  settings.NewRepository(client),
		Users:     users.NewService(userRepo, auth.HashPassword),
		Auth:      authService,
		Guard:     auth.NewMiddleware(logger, authService),
	}
}

// Router builds the HTTP API. metrics and jobHandler are optional.
func (c *Container) Router(cfg *Config, metrics *observability.Metrics, jobHandler *jobs.Handler) http.Handler {
	return NewRouter(RouterParams{
		Logger:           c.Logger,
		Config:           cfg,
		AuthMiddleware:   c.Guard,
		AuthHandler:      auth.NewHandler(c.Logger, c.Auth, c.Guard),
		ProductsHandler:  products.NewHandler(c.Logger, c.Products, c.Guard),
		PurchasesHandler: purchases.NewHandler(c.Logger, c.Purchases, c.Guard),
		SalesHandler:     sales.NewHandler(c.Logger, c.Sales, c.Guard),
		SettingsHandler:  settings.NewHandler(c.Logger, c.Settings, c.Guard),
		UsersHandler:     users.NewHandler(c.Logger, c.Users, c.Guard),
		JobHandler:       jobHandler,
		Metrics:          metrics,
		Health: func(ctx context.Context) error {
			return db.Ping(ctx, c.DB)
		},
	})
}

// EnsureAdmin creates an admin account with the given credentials unless the
// username already exists. It reports whether an account was created.
func (c *Container) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	existing, err := c.Users.Repository().FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := c.Users.Register(ctx, username, password, shared.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
