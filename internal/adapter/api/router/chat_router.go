package router

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/adapter/api/handler"
	"edulearn/internal/adapter/api/middleware"
	"edulearn/internal/domain/entity"
)

// SetupChatRouter sets up membership-engine routes.
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("/private", chatHandler.CreatePrivateChat, roleMiddleware.Require(entity.RoleInstructor, entity.RoleStudent))
	chatGroup.POST("/group", chatHandler.CreateGroupChat, roleMiddleware.Require(entity.RoleAdmin))
	chatGroup.POST("/add-user", chatHandler.AddUserToGroup, roleMiddleware.Require(entity.RoleInstructor))
	chatGroup.POST("/removeUser", chatHandler.RemoveUserFromGroup, roleMiddleware.Require(entity.RoleAdmin, entity.RoleInstructor))
	chatGroup.GET("", chatHandler.GetUserChats)
}
