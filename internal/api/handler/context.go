package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiapcloudgames/user-service/internal/api/middleware"
)

// callerID returns the subject injected by the Auth middleware. An empty
// value means the route was mounted without Auth.
func callerID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
