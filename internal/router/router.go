package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
)

// Deps carries what the routes need.  Limiter wraps the routes that accept
// credentials or change the ledger; a nil Limiter disables limiting.
type Deps struct {
	Auth     *handler.AuthHandler
	Movies   *handler.MovieHandler
	Bookings *handler.BookingHandler
	Gate     middleware.Authenticator
	Limiter  echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the banner and the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers everything under /api.
func RegisterAPI(e *echo.Echo, d Deps) {
	limit := d.Limiter
	if limit == nil {
		limit = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	gate := middleware.JWTAuth(d.Gate)

	users := e.Group("/api/users")
	users.POST("/register", d.Auth.Register, limit)
	users.POST("/login", d.Auth.Login, limit)
	users.GET("/me", d.Auth.Me, gate)

	movies := e.Group("/api/movies")
	movies.GET("", d.Movies.List)
	movies.GET("/:id", d.Movies.Get)
	movies.POST("", d.Movies.Add)

	bookings := e.Group("/api/bookings")
	bookings.POST("", d.Bookings.Create, gate, limit)
	bookings.GET("/mybookings", d.Bookings.ListMine, gate)
	bookings.GET("/:id", d.Bookings.Get, gate)
	bookings.DELETE("/:id", d.Bookings.Cancel, gate, limit)
	bookings.GET("", d.Bookings.ListAll)
}
