package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/flowstate-hq/booking-api/internal/config"
	"github.com/flowstate-hq/booking-api/internal/handler"
	"github.com/flowstate-hq/booking-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// and carry no extra middleware.  Currently only the health check used
// by load balancers and monitoring lives here.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated booking-page endpoints.
// The listings sit behind the Redis response cache (short TTL so seat
// counts stay close to live); the checkout endpoints sit behind the
// token-bucket rate limiter instead, since every order hits the payment
// gateway.  Both middlewares are no-ops when Redis is not configured.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, pay *handler.PaymentHandler, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.GET("/v1/events", p.GetEvents, cache)
	e.GET("/v1/slots", p.GetSlots, cache)

	e.POST("/v1/orders", pay.CreateOrder, limit)
	e.POST("/v1/payments/verify", pay.VerifyPayment, limit)
}

// RegisterAdmin registers the admin panel routes under /v1/admin.
// Login and the session probe are reachable without a cookie; every
// other route is gated by the AdminAuth middleware at group level.
func RegisterAdmin(e *echo.Echo, auth *handler.AdminAuthHandler,
	events *handler.AdminEventHandler, bookings *handler.AdminBookingHandler,
	cafes *handler.AdminCafeHandler, sessionSecret string) {

	g := e.Group("/v1/admin")
	g.POST("/login", auth.Login)
	g.GET("/session", auth.Session)

	gated := g.Group("")
	gated.Use(middleware.AdminAuth(sessionSecret))
	gated.POST("/logout", auth.Logout)
	gated.GET("/events", events.ListEvents)
	gated.POST("/events", events.CreateEvent)
	gated.PUT("/events/:id", events.UpdateEvent)
	gated.DELETE("/events/:id", events.DeleteEvent)
	gated.GET("/bookings", bookings.ListBookings)
	gated.GET("/cafes", cafes.ListCafes)
}
