package router

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/adapter/api/handler"
)

// SetupWebSocketRouter exposes the push channel. Authentication happens
// inside the handler via the token query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
