package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/DevHubFusionX/logi-backend/docs"
	"github.com/DevHubFusionX/logi-backend/internal/api/handler"
	"github.com/DevHubFusionX/logi-backend/internal/api/middleware"
	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

// Handlers groups the endpoint handlers wired into the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Shipments *handler.ShipmentHandler
	Drivers   *handler.DriverHandler
	Payments  *handler.PaymentHandler
	Webhooks  *handler.WebhookHandler
	Tickets   *handler.TicketHandler
	Pricing   *handler.PricingHandler
	Analytics *handler.AnalyticsHandler
	Health    *handler.HealthHandler
}

// NewRouter builds the Echo instance with all middleware and routes.
func NewRouter(h Handlers, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echoprometheus.NewMiddleware("logistics"))

	// Operational endpoints.
	e.GET("/health", h.Health.Live)
	e.GET("/health/ready", h.Health.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// Public endpoints. Registration resolves an optional bearer token so an
	// admin can create non-sender accounts; anonymous callers get sender.
	v1.POST("/auth/register", h.Auth.Register, middleware.JWTOptional(jwtSecret))
	v1.POST("/auth/login", h.Auth.Login)
	v1.GET("/pricing/quote", h.Pricing.Quote)
	v1.POST("/webhooks/stripe", h.Webhooks.Stripe)
	v1.POST("/webhooks/paystack", h.Webhooks.Paystack)

	// Authenticated endpoints. Fine-grained ownership rules live in the
	// services; the router only gates by role.
	authed := v1.Group("", middleware.JWT(jwtSecret))
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authed.GET("/auth/me", h.Auth.Me)
	authed.GET("/users", h.Auth.ListUsers, adminOnly)
	authed.PATCH("/users/:id", h.Auth.UpdateUser, adminOnly)

	authed.POST("/shipments", h.Shipments.Create, middleware.RequireRole(domain.RoleSender, domain.RoleAdmin))
	authed.GET("/shipments", h.Shipments.List)
	authed.GET("/shipments/:trackingNumber", h.Shipments.Get)
	authed.PATCH("/shipments/:trackingNumber", h.Shipments.Update)
	authed.POST("/shipments/:trackingNumber/status", h.Shipments.Transition)
	authed.POST("/shipments/:trackingNumber/cancel", h.Shipments.Cancel)
	authed.POST("/shipments/:trackingNumber/assign", h.Shipments.AssignDriver, adminOnly)
	authed.GET("/shipments/:trackingNumber/events", h.Shipments.Events)

	authed.POST("/shipments/:trackingNumber/payments", h.Payments.Initiate)
	authed.GET("/shipments/:trackingNumber/payments", h.Payments.List)

	authed.POST("/drivers", h.Drivers.Create, adminOnly)
	authed.GET("/drivers", h.Drivers.List, adminOnly)
	authed.GET("/drivers/:id", h.Drivers.Get, adminOnly)
	authed.PATCH("/drivers/:id", h.Drivers.Update, adminOnly)
	authed.DELETE("/drivers/:id", h.Drivers.Delete, adminOnly)

	authed.POST("/tickets", h.Tickets.Create)
	authed.GET("/tickets", h.Tickets.List)
	authed.GET("/tickets/:id", h.Tickets.Get)
	authed.PATCH("/tickets/:id", h.Tickets.Update, adminOnly)

	authed.POST("/pricing", h.Pricing.Create, adminOnly)
	authed.GET("/pricing", h.Pricing.List, adminOnly)
	authed.PATCH("/pricing/:id", h.Pricing.Update, adminOnly)
	authed.POST("/pricing/:id/activate", h.Pricing.Activate, adminOnly)
	authed.DELETE("/pricing/:id", h.Pricing.Delete, adminOnly)

	authed.GET("/analytics/summary", h.Analytics.Summary, adminOnly)

	return e
}
