package router // package router registers the HTTP routes of the dashboard API

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-dashboard/internal/handler"
	"github.com/iliyamo/event-ticket-dashboard/internal/middleware"
	"github.com/iliyamo/event-ticket-dashboard/internal/utils"
)

// Deps bundles what the routes need.  Cache and Limit may be
// pass-through middlewares when Redis is unavailable.
type Deps struct {
	Dashboard *handler.DashboardHandler
	Auth      *handler.AuthHandler
	JWTSecret string
	Ping      func(ctx context.Context) error
	Cache     echo.MiddlewareFunc // shared response cache for dashboard reads
	Limit     echo.MiddlewareFunc // token bucket per operator and route
}

// RegisterRoutes mounts the unauthenticated routes and the /v1 API.
func RegisterRoutes(e *echo.Echo, d Deps) {
	if d.Cache == nil {
		d.Cache = pass
	}
	if d.Limit == nil {
		d.Limit = pass
	}

	e.GET("/healthz", handler.Health(d.Ping))
	e.POST("/v1/auth/login", d.Auth.Login, d.Limit)

	// Every /v1 route below needs an operator or admin token.  The rate
	// limiter runs after JWTAuth so buckets are keyed per operator.
	g := e.Group("/v1",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(utils.RoleOperator, utils.RoleAdmin),
		d.Limit,
	)
	h := d.Dashboard

	// ---- Reads (cached) ----
	g.GET("/dashboard", h.Summary, d.Cache)
	g.GET("/menu", h.Menu, d.Cache)
	g.GET("/categories", h.Categories, d.Cache)
	g.GET("/tickets", h.Tickets, d.Cache)
	g.GET("/sales/recent", h.RecentSales, d.Cache)
	g.GET("/visitors/recent", h.RecentVisitors, d.Cache)
	g.GET("/integrity", h.Integrity) // always fresh
	g.POST("/refresh", h.Refresh)

	// ---- Sales desk ----
	g.POST("/tickets/:id/sell", h.Sell)
	g.DELETE("/tickets/:id/sale", h.ReverseSale)
	g.POST("/sales/bulk", h.BulkSell)

	// ---- Entrance ----
	g.POST("/tickets/:id/checkin", h.CheckIn)
	g.DELETE("/tickets/:id/checkin", h.ReverseCheckIn)
	g.PATCH("/tickets/:id/checkin", h.AdjustCheckIn) // family categories only

	// ---- Admin (ADMIN token or admin password) ----
	g.PUT("/menu", h.UpdateMenu)
	g.POST("/admin/reset", h.Reset)
}

func pass(next echo.HandlerFunc) echo.HandlerFunc { return next }
