package router

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/adapter/api/handler"
	"edulearn/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, messageHandler *handler.MessageHandler, authMiddleware *middleware.AuthMiddleware) {
	messageGroup := e.Group("/v1/messages")
	messageGroup.Use(authMiddleware.Authenticate)

	messageGroup.POST("", messageHandler.SendMessage)
	messageGroup.GET("/:chatId", messageHandler.GetMessages)
}
