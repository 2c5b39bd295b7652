// Package server assembles the echo application.
package server

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/tenantportal/internal/handler"
	"github.com/suteetoe/tenantportal/internal/middleware"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/pkg/logger"
	"github.com/suteetoe/tenantportal/prometheus"
	"go.uber.org/zap"
)

// Options configures the HTTP surface
type Options struct {
	Handler     *handler.Handler
	Tokens      middleware.TokenValidator
	Accounts    middleware.AccountLookup
	Logger      *zap.Logger
	CORSOrigins []string
}

// New builds the echo instance with every route registered
func New(opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: origins}))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	h := opts.Handler
	tenantOnly := middleware.RequireRoles(opts.Accounts, model.RoleTenant)
	managerOnly := middleware.RequireRoles(opts.Accounts, model.RoleManager)
	anyAccount := middleware.RequireRoles(opts.Accounts)

	// Public routes
	e.GET("/", handler.Index)
	e.GET("/metrics", handler.MetricsHandler)
	e.GET("/api/health", handler.HealthCheck)
	e.GET("/api/directory/map/pdf", h.MapPDF)
	e.POST("/api/auth/register", h.Register)
	e.POST("/api/auth/login", h.Login)

	// Signed by the payment provider instead of a bearer token
	e.POST("/api/payments/webhook", h.PaymentWebhook)

	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware(opts.Tokens))

	authGroup := api.Group("/auth", anyAccount)
	authGroup.GET("/profile", h.GetProfile)
	authGroup.PUT("/profile", h.UpdateProfile)
	authGroup.POST("/change-password", h.ChangePassword)

	api.POST("/managers", h.CreateManager, managerOnly)

	payments := api.Group("/payments")
	payments.GET("", h.ListPayments, tenantOnly)
	payments.POST("", h.RecordPayment, managerOnly)
	payments.POST("/initiate", h.InitiatePayment, tenantOnly)

	events := api.Group("/events")
	events.GET("", h.ListEvents, anyAccount)
	events.POST("", h.CreateEvent, tenantOnly)
	events.GET("/:id", h.GetEvent, anyAccount)
	events.DELETE("/:id", h.DeleteEvent, anyAccount)
	events.POST("/:id/rsvp", h.RSVP, tenantOnly)
	events.GET("/:id/rsvps", h.ListRSVPs, anyAccount)
	events.POST("/:id/documents", h.AddDocument, anyAccount)

	api.GET("/directory", h.ListDirectory, anyAccount)

	rooms := api.Group("/rooms")
	rooms.GET("", h.ListRooms, anyAccount)
	rooms.POST("", h.CreateRoom, managerOnly)

	bookings := api.Group("/bookings")
	bookings.GET("", h.ListBookings, anyAccount)
	bookings.POST("", h.RequestBooking, tenantOnly)
	bookings.POST("/:id/approve", h.ApproveBooking, managerOnly)
	bookings.POST("/:id/reject", h.RejectBooking, managerOnly)
	bookings.POST("/:id/cancel", h.CancelBooking, tenantOnly)
	bookings.POST("/:id/pay", h.PayBooking, tenantOnly)

	tickets := api.Group("/service-requests")
	tickets.GET("", h.ListServiceRequests, anyAccount)
	tickets.POST("", h.CreateServiceRequest, tenantOnly)
	tickets.POST("/:id/assign", h.AssignServiceRequest, managerOnly)
	tickets.POST("/:id/status", h.AdvanceServiceRequest, managerOnly)

	messages := api.Group("/messages")
	messages.GET("", h.ListMessages, anyAccount)
	messages.POST("", h.PostMessage, anyAccount)
	messages.DELETE("/:id", h.DeleteMessage, anyAccount)

	return e
}
