// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// Deps carries everything the routes need.  RateLimit and Cache may be
// pass-through middleware when Redis is unavailable.
type Deps struct {
	JWTSecret    string
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Calendar     *handler.CalendarHandler
	RateLimit    echo.MiddlewareFunc
	Cache        echo.MiddlewareFunc
}

// RegisterRoutes mounts the health check plus the public, staff and admin
// APIs.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	registerAuth(e, d)
	registerPublic(e, d)
	registerStaff(e, d)
	registerAdmin(e, d)
}

func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth")
	g.POST("/login", d.Auth.Login, d.RateLimit)
	g.POST("/refresh", d.Auth.Refresh, d.RateLimit)
	g.POST("/logout", d.Auth.Logout, middleware.JWTAuth(d.JWTSecret))

	e.GET("/v1/me", d.Auth.Me, middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
}

// registerPublic exposes the guest booking flow.  Availability is cached
// per date; the cache is dropped whenever a reservation on that date
// changes.
func registerPublic(e *echo.Echo, d Deps) {
	g := e.Group("/v1", d.RateLimit)
	g.GET("/availability", d.Reservations.Availability, d.Cache)
	g.POST("/reservations", d.Reservations.Create)
}

func registerStaff(e *echo.Echo, d Deps) {
	g := e.Group("/v1/reservations",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	g.GET("", d.Reservations.List)
	g.GET("/:id", d.Reservations.Get)
	g.PUT("/:id", d.Reservations.Update)
	g.DELETE("/:id", d.Reservations.Delete)
	g.POST("/:id/checkin", d.Reservations.CheckIn)
}

func registerAdmin(e *echo.Echo, d Deps) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	g.GET("/tables", d.Calendar.ListTables)
	g.GET("/business-hours", d.Calendar.ListBusinessHours)
	g.POST("/business-hours", d.Calendar.CreateBusinessHours)
	g.GET("/holidays", d.Calendar.ListHolidays)
	g.POST("/holidays", d.Calendar.CreateHoliday)
}
