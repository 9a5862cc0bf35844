package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// Summary handles GET /v1/dashboard.
func (h *DashboardHandler) Summary(c echo.Context) error {
	rows, err := h.Svc.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(rows), "items": rows})
}

// Menu handles GET /v1/menu.
func (h *DashboardHandler) Menu(c echo.Context) error {
	menu, err := h.Svc.MenuView(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(menu), "items": menu})
}

// Categories handles GET /v1/categories?type=Public.
func (h *DashboardHandler) Categories(c echo.Context) error {
	typ, ok := model.ParseTicketType(c.QueryParam("type"))
	if !ok {
		return writeError(c, &inventory.ValidationError{Field: "type", Value: c.QueryParam("type"), Reason: "want Public or Guest"})
	}
	cats, err := h.Svc.Categories(c.Request().Context(), typ)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"type": typ, "count": len(cats), "items": cats})
}

// Tickets handles GET /v1/tickets with optional type, category and status
// filters.  status=available|sold|eligible|visited drives the selection
// lists of the sales desk and the entrance.
func (h *DashboardHandler) Tickets(c echo.Context) error {
	var f inventory.Filter
	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		typ, ok := model.ParseTicketType(raw)
		if !ok {
			return writeError(c, &inventory.ValidationError{Field: "type", Value: raw, Reason: "want Public or Guest"})
		}
		f.Type = typ
	}
	f.Category = strings.TrimSpace(c.QueryParam("category"))
	status, err := inventory.ParseStatus(c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}
	f.Status = status

	tickets, err := h.Svc.Tickets(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(tickets), "items": tickets})
}

// RecentSales handles GET /v1/sales/recent.
func (h *DashboardHandler) RecentSales(c echo.Context) error {
	rows, err := h.Svc.RecentSales(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(rows), "items": rows})
}

// RecentVisitors handles GET /v1/visitors/recent.
func (h *DashboardHandler) RecentVisitors(c echo.Context) error {
	rows, err := h.Svc.RecentVisitors(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(rows), "items": rows})
}

// Integrity handles GET /v1/integrity.
func (h *DashboardHandler) Integrity(c echo.Context) error {
	v, err := h.Svc.Integrity(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": len(v) == 0, "count": len(v), "items": v})
}

// Refresh handles POST /v1/refresh: drop the cached snapshot and reload.
func (h *DashboardHandler) Refresh(c echo.Context) error {
	s, err := h.Svc.Refresh(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": len(s.Tickets), "menu_rows": len(s.Menu)})
}
