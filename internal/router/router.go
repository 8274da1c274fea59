package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/venue-directory/internal/handler" // handlers implementing each route
	"github.com/iliyamo/venue-directory/internal/metrics" // prometheus scrape endpoint
)

// RegisterRoutes registers the operational routes: the health check used
// by load balancers and the prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", metrics.Handler())
}

// RegisterAuth registers the editor login.  It takes no auth middleware
// so a token can be obtained without one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}
