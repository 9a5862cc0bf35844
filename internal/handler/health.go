package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health returns a health check for load balancers.  When ping is set the
// database is pinged and an unreachable store reports 503.
func Health(ping func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ping == nil {
			return c.String(http.StatusOK, "ok")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "store unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
