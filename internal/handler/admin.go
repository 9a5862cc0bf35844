package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

type adminReq struct {
	AdminPassword string `json:"admin_password"`
}

type menuReq struct {
	Menu          []model.MenuEntry `json:"menu"`
	AdminPassword string            `json:"admin_password"`
}

// Reset handles POST /v1/admin/reset.
func (h *DashboardHandler) Reset(c echo.Context) error {
	var req adminReq
	_ = c.Bind(&req) // an empty body still allows ADMIN tokens and the header
	if err := h.Svc.Reset(opContext(c), h.authorized(c, req.AdminPassword)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reset": true})
}

// UpdateMenu handles PUT /v1/menu.  The tickets table is regenerated from
// the new menu; rows with a malformed Series are skipped and listed under
// row_errors, and tickets whose metadata no longer matches their menu row
// are listed under stale.
func (h *DashboardHandler) UpdateMenu(c echo.Context) error {
	var req menuReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res, err := h.Svc.UpdateMenu(opContext(c), req.Menu, h.authorized(c, req.AdminPassword))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tickets":    len(res.Tickets),
		"menu":       res.Menu,
		"row_errors": errorList(res.RowErrors),
		"stale":      res.Stale,
	})
}
