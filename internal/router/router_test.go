package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-ticket-dashboard/internal/cache"
	"github.com/iliyamo/event-ticket-dashboard/internal/config"
	"github.com/iliyamo/event-ticket-dashboard/internal/handler"
	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
	"github.com/iliyamo/event-ticket-dashboard/internal/repository"
	"github.com/iliyamo/event-ticket-dashboard/internal/service"
	"github.com/iliyamo/event-ticket-dashboard/internal/utils"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	menu := []model.MenuEntry{{Type: model.TicketTypePublic, Category: "General", Series: "1-3", Admit: 2}}
	res := inventory.Reconcile(menu, nil)
	store := repository.NewMemoryStore(inventory.Snapshot{Tickets: res.Tickets, Menu: res.Menu})
	svc := service.NewDashboard(store, cache.NewSnapshot(time.Minute, time.Now))

	adminHash, err := bcrypt.GenerateFromPassword([]byte("root"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{JWTSecret: "k", AccessTTLMin: 5, AdminUser: "admin", AdminPasswordHash: string(adminHash)}

	e := echo.New()
	RegisterRoutes(e, Deps{
		Dashboard: handler.NewDashboardHandler(svc, cfg.AdminPasswordHash),
		Auth:      handler.NewAuthHandler(cfg),
		JWTSecret: cfg.JWTSecret,
	})
	return e
}

func send(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	e := newServer(t)
	op, err := utils.NewAccessToken("k", "desk-1", utils.RoleOperator, 5, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	stranger, _ := utils.NewAccessToken("k", "x", "CUSTOMER", 5, time.Now())

	cases := []struct {
		method, target, token, body string
		status                      int
	}{
		{http.MethodGet, "/healthz", "", "", http.StatusOK},
		{http.MethodGet, "/v1/dashboard", "", "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/dashboard", stranger.Token, "", http.StatusForbidden},
		{http.MethodGet, "/v1/dashboard", op.Token, "", http.StatusOK},
		{http.MethodPost, "/v1/tickets/1/sell", op.Token, `{"customer":"Ann"}`, http.StatusOK},
		{http.MethodPost, "/v1/tickets/0001/checkin", op.Token, `{"seats":2}`, http.StatusOK},
		{http.MethodPatch, "/v1/tickets/0001/checkin", op.Token, `{"seats":1}`, http.StatusConflict},
		{http.MethodDelete, "/v1/tickets/0001/checkin", op.Token, "", http.StatusOK},
		{http.MethodDelete, "/v1/tickets/0001/sale", op.Token, "", http.StatusOK},
		{http.MethodGet, "/v1/tickets?status=available", op.Token, "", http.StatusOK},
		{http.MethodPost, "/v1/admin/reset", op.Token, "", http.StatusForbidden},
		{http.MethodPost, "/v1/admin/reset", op.Token, `{"admin_password":"root"}`, http.StatusOK},
		{http.MethodPost, "/v1/refresh", op.Token, "", http.StatusOK},
		{http.MethodPost, "/v1/auth/login", "", `{"username":"admin","password":"root"}`, http.StatusOK},
	}
	for _, tc := range cases {
		if rec := send(e, tc.method, tc.target, tc.token, tc.body); rec.Code != tc.status {
			t.Fatalf("%s %s = %d, want %d (%s)", tc.method, tc.target, rec.Code, tc.status, rec.Body.String())
		}
	}
}
