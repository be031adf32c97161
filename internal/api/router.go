package api

import (
	"context"
	"errors"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/medconnect/telemed-portal/docs"
	"github.com/medconnect/telemed-portal/internal/api/handler"
	"github.com/medconnect/telemed-portal/internal/api/middleware"
	"github.com/medconnect/telemed-portal/internal/core/domain"
	"github.com/medconnect/telemed-portal/internal/core/ports"
	"github.com/medconnect/telemed-portal/internal/core/service"
)

// Pinger is a dependency probed by the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the HTTP surface needs from the application root.
type Deps struct {
	Sessions      *service.SessionStore
	Auth          ports.AuthService
	Notifications *service.NotificationReconciler
	Routes        *domain.RouteTable
	Storage       Pinger
	Backend       Pinger
	// Realtime reports whether the push channel is connected; nil skips the check.
	Realtime func() bool
	// Registry receives the HTTP metrics; nil uses the default registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "telemed_portal",
		Registerer: registerer(d.Registry),
	}))
	e.Use(middleware.Session(d.Sessions))

	// --- Dependencies ---
	guard := service.NewRouteGuard(d.Sessions)
	authHandler := handler.NewAuthHandler(d.Auth)
	navHandler := handler.NewNavigationHandler()
	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	pageHandler := handler.NewPageHandler(d.Sessions, d.Notifications)

	// --- Health probes, metrics and docs (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(readinessChecks(d))

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – storage, backend, realtime
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(d.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/api/auth/session", authHandler.Session)

	// --- Session-scoped API ---
	apiGroup := e.Group("/api", middleware.RequireSession())
	apiGroup.GET("/navigation", navHandler.List)
	apiGroup.GET("/notifications", notificationHandler.List)
	apiGroup.POST("/notifications/refresh", notificationHandler.Refresh)
	apiGroup.POST("/notifications/:id/read", notificationHandler.MarkRead)

	// --- Views from the route table ---
	e.GET(domain.PathRoot, pageHandler.Root)
	for _, view := range d.Routes.Views() {
		if view.Access == domain.AccessPublic {
			e.GET(view.Path, pageHandler.Render(view))
			continue
		}
		e.GET(view.Path, pageHandler.Render(view), middleware.Guard(guard, view.AllowedRoles...))
	}
	e.RouteNotFound("/*", pageHandler.NotFound)

	return e
}

func readinessChecks(d Deps) map[string]handler.Check {
	checks := make(map[string]handler.Check)
	if d.Storage != nil {
		checks["session_storage"] = d.Storage.Ping
	}
	if d.Backend != nil {
		checks["backend"] = d.Backend.Ping
	}
	if d.Realtime != nil {
		connected := d.Realtime
		checks["realtime"] = func(context.Context) error {
			if !connected() {
				return errors.New("realtime channel not connected")
			}
			return nil
		}
	}
	return checks
}

func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return prometheus.DefaultRegisterer
	}
	return reg
}

func gatherer(reg *prometheus.Registry) prometheus.Gatherer {
	if reg == nil {
		return prometheus.DefaultGatherer
	}
	return reg
}
