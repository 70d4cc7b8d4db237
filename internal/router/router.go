// Package router registers the HTTP routes and binds the middleware
// chains: public reads behind the response cache, auth and checkout
// behind the rate limiter, customer routes behind JWT, admin routes
// behind JWT plus the ADMIN role.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/santhokumarp/salonhub/internal/handler"
	"github.com/santhokumarp/salonhub/internal/middleware"
	"github.com/santhokumarp/salonhub/internal/model"
)

// RegisterRoutes registers routes that need no dependencies: currently
// only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints. The
// cache middleware may be a pass-through when Redis is absent.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, slots *handler.SlotsHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/categories", cat.ListCategories)
	g.GET("/services", cat.ListServices)
	g.GET("/slots", slots.ListByDate)
	g.GET("/available-dates", slots.AvailableDates)
}

// RegisterAuth registers registration, login and token exchange under
// /v1/auth, plus the authenticated profile and logout endpoints.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout", a.Logout)
}

// RegisterCustomer registers the cart and booking surface. Both roles may
// use it; admins mostly for testing, customers for the real flow.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, co *handler.CheckoutHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	g.POST("/cart/items", cart.Add)
	g.GET("/cart", cart.List)
	g.DELETE("/cart/items/:id", cart.Remove)

	g.POST("/checkout", co.Checkout, limit)
	g.GET("/checkout", co.Latest)
	g.GET("/bookings/history", co.History)
	g.POST("/bookings/:id/cancel", co.Cancel)
}

// RegisterAdmin registers the management surface behind the ADMIN role.
func RegisterAdmin(e *echo.Echo, sch *handler.ScheduleHandler, ab *handler.AdminBookingHandler, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))

	g.GET("/services", cat.ListAllServices)
	g.POST("/services", cat.CreateService)
	g.PUT("/services/:id", cat.UpdateService)
	g.POST("/categories", cat.CreateCategory)

	g.GET("/slot-templates", sch.ListTemplates)
	g.POST("/slot-templates", sch.CreateTemplate)
	g.PUT("/slot-templates/:id", sch.UpdateTemplate)
	g.DELETE("/slot-templates/:id", sch.DeleteTemplate)

	g.GET("/holidays", sch.ListHolidays)
	g.POST("/holidays", sch.CreateHoliday)
	g.DELETE("/holidays/:id", sch.DeleteHoliday)

	g.GET("/working-days", sch.ListWorkingDays)
	g.PUT("/working-days", sch.UpsertWorkingDay)

	g.GET("/bookings", ab.List)
	g.POST("/bookings/accept", ab.Accept)
	g.POST("/bookings/decline", ab.Decline)
	g.GET("/bookings/stats", ab.Stats)
}
