package handler // handler holds the echo handlers of the dashboard API

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/middleware"
	"github.com/iliyamo/event-ticket-dashboard/internal/service"
	"github.com/iliyamo/event-ticket-dashboard/internal/utils"
)

// DashboardHandler serves the ticket endpoints.  AdminHash is the bcrypt
// hash operators can present to unlock admin-only operations without an
// ADMIN token.
type DashboardHandler struct {
	Svc       *service.Dashboard
	AdminHash string
}

// NewDashboardHandler panics on a nil service.
func NewDashboardHandler(svc *service.Dashboard, adminHash string) *DashboardHandler {
	if svc == nil {
		panic("nil service passed to NewDashboardHandler")
	}
	return &DashboardHandler{Svc: svc, AdminHash: adminHash}
}

// adminHeader carries the admin password on requests by OPERATOR tokens.
const adminHeader = "X-Admin-Password"

// authorized reports whether the caller may run an admin-only operation.
// password is the value supplied in the request body, if any.
func (h *DashboardHandler) authorized(c echo.Context, password string) bool {
	if middleware.Role(c) == utils.RoleAdmin {
		return true
	}
	if password == "" {
		password = c.Request().Header.Get(adminHeader)
	}
	return password != "" && utils.VerifyPassword(h.AdminHash, password)
}

// opContext tags the request context with the operator for audit events.
func opContext(c echo.Context) context.Context {
	return service.WithOperator(c.Request().Context(), middleware.Operator(c))
}

// ticketParam normalizes the :id path parameter ("7" and "0007" name the
// same ticket).
func ticketParam(c echo.Context) (string, error) {
	return inventory.NormalizeTicketID(c.Param("id"))
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	body := echo.Map{"error": err.Error()}
	var (
		ve  *inventory.ValidationError
		mse *inventory.MalformedSeriesError
		nfe *inventory.NotFoundError
		sce *inventory.StateConflictError
	)
	switch {
	case errors.As(err, &ve):
		body["details"] = echo.Map{"field": ve.Field, "value": ve.Value, "reason": ve.Reason}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &mse):
		body["details"] = echo.Map{"row": mse.Row, "series": mse.Series, "reason": mse.Reason}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &nfe):
		body["details"] = echo.Map{"ticket_id": nfe.TicketID}
		return c.JSON(http.StatusNotFound, body)
	case errors.As(err, &sce):
		body["details"] = echo.Map{"ticket_id": sce.TicketID, "op": sce.Op, "reason": sce.Reason}
		return c.JSON(http.StatusConflict, body)
	case errors.Is(err, inventory.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin authorization required"})
	case errors.Is(err, inventory.ErrStoreUnavailable):
		log.Printf("handler: %v", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ticket store unavailable"})
	}
	log.Printf("handler: unexpected error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// errorList renders per-item errors for JSON.
func errorList(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
