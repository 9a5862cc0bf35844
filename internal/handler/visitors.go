package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type seatsReq struct {
	Seats *int `json:"seats"`
}

// bindSeats reads the seat count, falling back to def when absent.  A
// negative def makes the field required.
func bindSeats(c echo.Context, def int) (int, bool) {
	var req seatsReq
	if err := c.Bind(&req); err != nil {
		return 0, false
	}
	if req.Seats == nil {
		return def, def >= 0
	}
	return *req.Seats, true
}

// CheckIn handles POST /v1/tickets/:id/checkin.
func (h *DashboardHandler) CheckIn(c echo.Context) error {
	id, err := ticketParam(c)
	if err != nil {
		return writeError(c, err)
	}
	seats, ok := bindSeats(c, 1)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, err := h.Svc.CheckIn(opContext(c), id, seats)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// ReverseCheckIn handles DELETE /v1/tickets/:id/checkin.
func (h *DashboardHandler) ReverseCheckIn(c echo.Context) error {
	id, err := ticketParam(c)
	if err != nil {
		return writeError(c, err)
	}
	t, err := h.Svc.ReverseCheckIn(opContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// AdjustCheckIn handles PATCH /v1/tickets/:id/checkin for family
// categories.  seats is required; 0 removes the check-in.
func (h *DashboardHandler) AdjustCheckIn(c echo.Context) error {
	id, err := ticketParam(c)
	if err != nil {
		return writeError(c, err)
	}
	seats, ok := bindSeats(c, -1)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats required"})
	}
	t, err := h.Svc.AdjustCheckIn(opContext(c), id, seats)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
