package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// AdminOnly gates user-management routes behind the admin capability.
// The role claim must already be in context via the Auth middleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.Role(role).CanManageUsers() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
