package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diwanhq/diwan/internal/core/domain"
)

// authClaims is the set of identity claims the Auth middleware injects.
type authClaims struct {
	SessionID string
	UserID    string
	Username  string
	Role      domain.Role
}

// ctxClaims extracts the auth claims and performs a fast-fail check before
// any service call: a missing user id or role means the middleware did not
// run, which is a wiring bug surfaced as 401 rather than a panic downstream.
func ctxClaims(c echo.Context) (authClaims, error) {
	claims := authClaims{}
	claims.SessionID, _ = c.Get("session_id").(string)
	claims.UserID, _ = c.Get("user_id").(string)
	claims.Username, _ = c.Get("username").(string)

	role, _ := c.Get("role").(string)
	claims.Role = domain.Role(role)

	if claims.UserID == "" || !claims.Role.Valid() {
		return authClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
