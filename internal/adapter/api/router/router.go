package router

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/adapter/api/handler"
	"edulearn/internal/adapter/api/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Chat         *handler.ChatHandler
	Message      *handler.MessageHandler
	Notification *handler.NotificationHandler
	WebSocket    *handler.WebSocketHandler
	Health       *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	SetupAuthRouter(e, h.Auth, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware, roleMiddleware)
	SetupMessageRouter(e, h.Message, authMiddleware)
	SetupNotificationRouter(e, h.Notification, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e, h.Health)
}
