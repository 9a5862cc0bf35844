package middleware

import "github.com/labstack/echo/v4"

// Operator returns the authenticated operator name, or "anon" before
// JWTAuth has run.
func Operator(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Role returns the role claim stored by JWTAuth.
func Role(c echo.Context) string {
	s, _ := c.Get("role").(string)
	return s
}
