package router

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/adapter/api/handler"
)

// SetupDevRouter exposes the custom-token mint for local clients. Not
// registered outside development.
func SetupDevRouter(e *echo.Echo, environment string, devTokenHandler *handler.DevTokenHandler) {
	if environment != "development" {
		return
	}

	e.POST("/_dev/token", devTokenHandler.GenerateToken)
}
