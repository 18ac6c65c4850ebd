package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openlearn/education-platform/internal/api/middleware"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call: a present user id
// proves the middleware ran. The values are read-only downstream.
func ctxIdentity(c echo.Context) (userID, username, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	username, _ = c.Get(middleware.CtxUsername).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	return userID, username, role, nil
}
