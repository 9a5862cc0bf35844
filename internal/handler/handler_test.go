package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-ticket-dashboard/internal/cache"
	"github.com/iliyamo/event-ticket-dashboard/internal/config"
	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
	"github.com/iliyamo/event-ticket-dashboard/internal/repository"
	"github.com/iliyamo/event-ticket-dashboard/internal/service"
	"github.com/iliyamo/event-ticket-dashboard/internal/utils"
)

var epoch = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func hash(t *testing.T, plain string) string {
	t.Helper()
	h, err := utils.HashPassword(plain, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func newHandler(t *testing.T) (*DashboardHandler, *repository.MemoryStore) {
	t.Helper()
	one := 1.0
	menu := []model.MenuEntry{
		{Type: model.TicketTypePublic, Category: "General", Series: "1-3", Admit: 2, Seq: &one},
		{Type: model.TicketTypeGuest, Category: "Family Silver", Series: "10-10", Admit: 4},
	}
	res := inventory.Reconcile(menu, nil)
	store := repository.NewMemoryStore(inventory.Snapshot{Tickets: res.Tickets, Menu: res.Menu})
	svc := service.NewDashboard(store, cache.NewSnapshot(time.Minute, time.Now), service.WithClock(func() time.Time { return epoch }))
	return NewDashboardHandler(svc, hash(t, "letmein")), store
}

type call struct {
	method, target, body string
	id                   string
	role                 string
	header               map[string]string
}

func do(t *testing.T, h echo.HandlerFunc, cl call) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(cl.method, cl.target, strings.NewReader(cl.body))
	if cl.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range cl.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if cl.id != "" {
		c.SetParamNames("id")
		c.SetParamValues(cl.id)
	}
	c.Set("user_id", "desk-1")
	c.Set("role", cl.role)
	if err := h(c); err != nil {
		t.Fatalf("handler returned %v", err)
	}
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestSellAndCheckInFlow(t *testing.T) {
	h, _ := newHandler(t)

	rec, body := do(t, h.Sell, call{method: http.MethodPost, target: "/v1/tickets/2/sell", id: "2", body: `{"customer":" Bob "}`})
	if rec.Code != http.StatusOK || body["TicketID"] != "0002" || body["Customer"] != "Bob" {
		t.Fatalf("sell = %d %v", rec.Code, body)
	}
	rec, _ = do(t, h.Sell, call{method: http.MethodPost, target: "/v1/tickets/0002/sell", id: "0002", body: `{"customer":"Again"}`})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second sell status = %d, want 409", rec.Code)
	}
	rec, _ = do(t, h.CheckIn, call{method: http.MethodPost, target: "/v1/tickets/0002/checkin", id: "0002", body: `{"seats":3}`})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("over-admit check-in status = %d, want 400", rec.Code)
	}
	rec, body = do(t, h.CheckIn, call{method: http.MethodPost, target: "/v1/tickets/0002/checkin", id: "0002"})
	if rec.Code != http.StatusOK || body["Visitor_Seats"] != float64(1) {
		t.Fatalf("check-in = %d %v", rec.Code, body)
	}

	rec, body = do(t, h.Summary, call{method: http.MethodGet, target: "/v1/dashboard"})
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	items := body["items"].([]any)
	first := items[0].(map[string]any)
	if first["Category"] != "General" || first["Tickets_Sold"] != float64(1) || first["Balance_Visitors"] != float64(1) {
		t.Fatalf("first summary row = %v", first)
	}
	if last := items[len(items)-1].(map[string]any); last["Seq"] != inventory.TotalLabel {
		t.Fatalf("last row = %v, want total", last)
	}
}

func TestErrorStatuses(t *testing.T) {
	h, store := newHandler(t)
	cases := []struct {
		name   string
		h      echo.HandlerFunc
		cl     call
		status int
	}{
		{"unknown ticket", h.Sell, call{method: http.MethodPost, id: "0099", body: `{"customer":"X"}`}, http.StatusNotFound},
		{"bad id", h.Sell, call{method: http.MethodPost, id: "abc", body: `{"customer":"X"}`}, http.StatusBadRequest},
		{"reverse unsold", h.ReverseSale, call{method: http.MethodDelete, id: "0001"}, http.StatusConflict},
		{"adjust without seats", h.AdjustCheckIn, call{method: http.MethodPatch, id: "0010", body: `{}`}, http.StatusBadRequest},
		{"bad status filter", h.Tickets, call{method: http.MethodGet, target: "/v1/tickets?status=lost"}, http.StatusBadRequest},
		{"bad type", h.Categories, call{method: http.MethodGet, target: "/v1/categories?type=VIP"}, http.StatusBadRequest},
		{"long customer", h.Sell, call{method: http.MethodPost, id: "0001", body: `{"customer":"` + strings.Repeat("x", inventory.MaxCustomerLength+1) + `"}`}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.cl.target == "" {
				tc.cl.target = "/"
			}
			if rec, _ := do(t, tc.h, tc.cl); rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}

	store.FailLoad = errors.New("db down")
	if _, err := h.Svc.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh should fail while the store is down")
	}
	if rec, _ := do(t, h.Summary, call{method: http.MethodGet, target: "/v1/dashboard"}); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("summary with store down = %d, want 503", rec.Code)
	}
}

func TestAdminGate(t *testing.T) {
	h, store := newHandler(t)
	if _, err := h.Svc.Sell(context.Background(), "0001", "Ann"); err != nil {
		t.Fatal(err)
	}

	rec, _ := do(t, h.Reset, call{method: http.MethodPost, target: "/v1/admin/reset", role: utils.RoleOperator, body: `{"admin_password":"nope"}`})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong password status = %d, want 403", rec.Code)
	}
	rec, _ = do(t, h.Reset, call{method: http.MethodPost, target: "/v1/admin/reset", role: utils.RoleOperator,
		header: map[string]string{adminHeader: "letmein"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("header password status = %d, want 200", rec.Code)
	}
	s, _ := store.Load(context.Background())
	if tk, _ := s.Find("0001"); tk.Sold {
		t.Fatal("reset left 0001 sold")
	}

	menu := `{"menu":[{"Type":"Public","Category":"General","Series":"1-2","Admit":2,"Seq":1},{"Type":"Public","Category":"Bad","Series":"9","Admit":1}]}`
	rec, _ = do(t, h.UpdateMenu, call{method: http.MethodPut, target: "/v1/menu", role: utils.RoleOperator, body: menu})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("operator menu update = %d, want 403", rec.Code)
	}
	rec, body := do(t, h.UpdateMenu, call{method: http.MethodPut, target: "/v1/menu", role: utils.RoleAdmin, body: menu})
	if rec.Code != http.StatusOK || body["tickets"] != float64(2) || len(body["row_errors"].([]any)) != 1 {
		t.Fatalf("admin menu update = %d %v", rec.Code, body)
	}
}

func TestBulkSellUpload(t *testing.T) {
	h, _ := newHandler(t)
	if _, err := h.Svc.Sell(context.Background(), "0002", "Early"); err != nil {
		t.Fatal(err)
	}

	upload := func(name, content string) (*httptest.ResponseRecorder, map[string]any) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write([]byte(content))
		_ = w.Close()

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/v1/sales/bulk", &buf)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		rec := httptest.NewRecorder()
		if err := h.BulkSell(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		out := map[string]any{}
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
		return rec, out
	}

	rec, body := upload("sales.csv", "Ticket_ID,Customer\n1,A\n9999,B\n2,C\n")
	if rec.Code != http.StatusOK || body["success_count"] != float64(1) || body["failed_count"] != float64(2) {
		t.Fatalf("bulk = %d %v", rec.Code, body)
	}
	preview := body["failed_preview"].([]any)
	if len(preview) != 2 || preview[0] != "9999" || preview[1] != "0002" {
		t.Fatalf("failed_preview = %v", preview)
	}

	if rec, _ := upload("sales.csv", "Ticket,Name\n1,A\n"); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing columns status = %d, want 400", rec.Code)
	}
	if rec, _ := upload("sales.pdf", "x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad extension status = %d, want 400", rec.Code)
	}
}

func TestSelectionLists(t *testing.T) {
	h, _ := newHandler(t)
	if _, err := h.Svc.Sell(context.Background(), "0003", "Cara"); err != nil {
		t.Fatal(err)
	}
	rec, body := do(t, h.Tickets, call{method: http.MethodGet, target: "/v1/tickets?type=public&status=available"})
	if rec.Code != http.StatusOK || body["count"] != float64(2) {
		t.Fatalf("available = %d %v", rec.Code, body)
	}
	_, body = do(t, h.Categories, call{method: http.MethodGet, target: "/v1/categories?type=Guest"})
	if items := body["items"].([]any); len(items) != 1 || items[0] != "Family Silver" {
		t.Fatalf("categories = %v", body)
	}
	_, body = do(t, h.RecentSales, call{method: http.MethodGet, target: "/v1/sales/recent"})
	if items := body["items"].([]any); len(items) != 1 || items[0].(map[string]any)["Sno"] != float64(1) {
		t.Fatalf("recent sales = %v", body)
	}
	_, body = do(t, h.Integrity, call{method: http.MethodGet, target: "/v1/integrity"})
	if body["ok"] != true {
		t.Fatalf("integrity = %v", body)
	}
}

func TestLogin(t *testing.T) {
	cfg := config.Config{
		JWTSecret:            "k",
		AccessTTLMin:         5,
		AdminUser:            "admin",
		AdminPasswordHash:    hash(t, "root"),
		OperatorUser:         "operator",
		OperatorPasswordHash: hash(t, "desk"),
	}
	a := NewAuthHandler(cfg)
	cases := []struct {
		body   string
		status int
		role   string
	}{
		{`{"username":"admin","password":"root"}`, http.StatusOK, utils.RoleAdmin},
		{`{"username":"operator","password":"desk","desk":"gate"}`, http.StatusOK, utils.RoleOperator},
		{`{"username":"operator","password":"root"}`, http.StatusUnauthorized, ""},
		{`{"username":"","password":"x"}`, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		rec, body := do(t, a.Login, call{method: http.MethodPost, target: "/v1/auth/login", body: tc.body})
		if rec.Code != tc.status {
			t.Fatalf("login %s = %d, want %d", tc.body, rec.Code, tc.status)
		}
		if tc.role != "" && body["role"] != tc.role {
			t.Fatalf("login %s role = %v, want %s", tc.body, body["role"], tc.role)
		}
	}
}

func TestHealth(t *testing.T) {
	if rec, _ := do(t, Health(nil), call{method: http.MethodGet, target: "/healthz"}); rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	down := Health(func(context.Context) error { return errors.New("down") })
	if rec, _ := do(t, down, call{method: http.MethodGet, target: "/healthz"}); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("health with store down = %d, want 503", rec.Code)
	}
}
