// Package app wires configuration into a ready to use set of services.
package app

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/suteetoe/tenantportal/internal/handler"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/internal/seed"
	"github.com/suteetoe/tenantportal/internal/server"
	"github.com/suteetoe/tenantportal/internal/service"
	"github.com/suteetoe/tenantportal/pkg/cache"
	"github.com/suteetoe/tenantportal/pkg/config"
	"github.com/suteetoe/tenantportal/pkg/database"
	"github.com/suteetoe/tenantportal/pkg/jwtutil"
	"github.com/suteetoe/tenantportal/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the long lived dependencies of a portal process
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Tokens *jwtutil.JWTUtil
	redis  *redis.Client

	Identity  *service.IdentityService
	Payments  *service.PaymentService
	Events    *service.EventService
	Directory *service.DirectoryService
	Bookings  *service.BookingService
	Tickets   *service.TicketService
	Messages  *service.MessageService
}

// New connects to the database and, when enabled, redis. A gateway of nil
// means the Stripe gateway built from configuration.
func New(cfg *config.Config, log *zap.Logger, gateway payment.Gateway) (*App, error) {
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		return nil, err
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver))

	a := &App{
		Config: cfg,
		Log:    log,
		DB:     db,
		Tokens: jwtutil.NewJWTUtil(&cfg.JWT),
	}

	var directoryCache service.DirectoryCache
	if cfg.Redis.Enabled {
		a.redis = cache.NewClient(cfg.Redis)
		c := cache.NewCache(a.redis, "portal")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			log.Warn("Redis unavailable, directory cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			directoryCache = c
			log.Info("Redis connection established", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if gateway == nil {
		gateway = payment.NewStripeGateway(cfg.Stripe)
	}

	a.Identity = service.NewIdentityService(db, a.Tokens)
	a.Payments = service.NewPaymentService(db, gateway, cfg.Stripe.Currency, cfg.Portal.OverdueGrace, log)
	a.Events = service.NewEventService(db)
	a.Directory = service.NewDirectoryService(db, directoryCache, cfg.Redis.DirectoryTTL, cfg.Portal.MapPDFURL, log)
	a.Bookings = service.NewBookingService(db)
	a.Tickets = service.NewTicketService(db)
	a.Messages = service.NewMessageService(db)
	return a, nil
}

// Migrate creates or updates the schema
func (a *App) Migrate() error {
	return database.MigrateModels(a.DB, model.All()...)
}

// Seed loads the default manager, room and directory
func (a *App) Seed(ctx context.Context) (*seed.Result, error) {
	return seed.Run(ctx, seed.Services{
		Identity:  a.Identity,
		Bookings:  a.Bookings,
		Directory: a.Directory,
	}, a.Config.Portal, a.Log)
}

// Echo builds the HTTP server
func (a *App) Echo() *echo.Echo {
	return server.New(server.Options{
		Handler: &handler.Handler{
			Identity:  a.Identity,
			Payments:  a.Payments,
			Events:    a.Events,
			Directory: a.Directory,
			Bookings:  a.Bookings,
			Tickets:   a.Tickets,
			Messages:  a.Messages,
		},
		Tokens:      a.Tokens,
		Accounts:    a.Identity,
		Logger:      a.Log,
		CORSOrigins: a.Config.Server.CORSOrigins,
	})
}

// Close releases database and redis connections
func (a *App) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
