package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-dashboard/internal/importer"
)

// bulkPreviewLimit caps the failed IDs echoed back for a bulk sale.
const bulkPreviewLimit = 10

type sellReq struct {
	Customer string `json:"customer"`
}

// Sell handles POST /v1/tickets/:id/sell.
func (h *DashboardHandler) Sell(c echo.Context) error {
	id, err := ticketParam(c)
	if err != nil {
		return writeError(c, err)
	}
	var req sellReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, err := h.Svc.Sell(opContext(c), id, strings.TrimSpace(req.Customer))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// ReverseSale handles DELETE /v1/tickets/:id/sale.
func (h *DashboardHandler) ReverseSale(c echo.Context) error {
	id, err := ticketParam(c)
	if err != nil {
		return writeError(c, err)
	}
	t, err := h.Svc.ReverseSale(opContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

type bulkFailure struct {
	TicketID string `json:"ticket_id"`
	Error    string `json:"error"`
}

// BulkSell handles POST /v1/sales/bulk with a multipart "file" field
// holding a CSV or XLSX sheet.  A sheet without the required columns is
// rejected before any ticket changes.
func (h *DashboardHandler) BulkSell(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "multipart field \"file\" required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot open upload"})
	}
	defer f.Close()

	rows, err := importer.Parse(fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Svc.BulkSell(opContext(c), importer.SaleRows(rows))
	if err != nil {
		return writeError(c, err)
	}

	preview := res.FailedIDs
	if len(preview) > bulkPreviewLimit {
		preview = preview[:bulkPreviewLimit]
	}
	failures := make([]bulkFailure, len(res.Failures))
	for i, rf := range res.Failures {
		failures[i] = bulkFailure{TicketID: rf.TicketID, Error: rf.Err.Error()}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rows":           len(rows),
		"success_count":  res.SuccessCount,
		"failed_count":   len(res.FailedIDs),
		"failed_preview": preview,
		"failures":       failures,
	})
}

