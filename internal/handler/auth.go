package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-dashboard/internal/config"
	"github.com/iliyamo/event-ticket-dashboard/internal/utils"
)

// AuthHandler issues operator tokens.  There is no user table: the admin
// and the shared operator account are configured by bcrypt hash.
type AuthHandler struct {
	Cfg config.Config
	Now func() time.Time
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Now: time.Now}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Desk     string `json:"desk"` // optional desk label, becomes the token subject
}

type loginResp struct {
	Role   string            `json:"role"`
	Access utils.AccessToken `json:"access"`
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	user := strings.TrimSpace(req.Username)
	if user == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	var role string
	switch {
	case user == h.Cfg.AdminUser && utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password):
		role = utils.RoleAdmin
	case user == h.Cfg.OperatorUser && utils.VerifyPassword(h.Cfg.OperatorPasswordHash, req.Password):
		role = utils.RoleOperator
	default:
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	subject := user
	if desk := strings.TrimSpace(req.Desk); desk != "" {
		subject = user + "@" + desk
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, subject, role, h.Cfg.AccessTTLMin, h.Now())
	if err != nil {
		log.Printf("auth: sign token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{Role: role, Access: tok})
}
