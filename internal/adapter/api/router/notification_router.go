package router

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/adapter/api/handler"
	"edulearn/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notificationGroup := e.Group("/v1/notifications")
	notificationGroup.Use(authMiddleware.Authenticate)

	notificationGroup.GET("", notificationHandler.ListNotifications)
	notificationGroup.PUT("/:id/read", notificationHandler.MarkRead)
}
