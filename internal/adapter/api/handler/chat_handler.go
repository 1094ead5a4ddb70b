package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"edulearn/internal/usecase"
	"edulearn/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createPrivateChatRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type createGroupChatRequest struct {
	Name         string   `json:"name" validate:"required"`
	Participants []string `json:"participants" validate:"required,min=2"`
}

type addUserRequest struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type removeUserRequest struct {
	ChatID string `json:"chatId" validate:"required"`
	UserID string `json:"userIdToRemove" validate:"required"`
}

// CreatePrivateChat finds or creates the one private chat between the
// caller and the given user.
func (h *ChatHandler) CreatePrivateChat(c echo.Context) error {
	var req createPrivateChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreatePrivateChat(c.Request().Context(), userID, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, echo.Map{"chat": chat})
}

// CreateGroupChat creates a named group with the caller as first admin.
func (h *ChatHandler) CreateGroupChat(c echo.Context) error {
	var req createGroupChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreateGroupChat(c.Request().Context(), userID, usecase.CreateGroupChatInput{
		Name:           req.Name,
		ParticipantIDs: req.Participants,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, echo.Map{"chat": chat})
}

// AddUserToGroup adds a user to an existing group chat.
func (h *ChatHandler) AddUserToGroup(c echo.Context) error {
	var req addUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.chatUseCase.AddUserToGroup(c.Request().Context(), req.ChatID, req.UserID); err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, http.StatusOK, "User added successfully")
}

// RemoveUserFromGroup removes a user, cascading to chat deletion when the
// participant set drops below two.
func (h *ChatHandler) RemoveUserFromGroup(c echo.Context) error {
	var req removeUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	result, err := h.chatUseCase.RemoveUserFromGroup(c.Request().Context(), req.ChatID, req.UserID, userID)
	if err != nil {
		return response.Error(c, err)
	}

	if result.Deleted {
		return response.Message(c, http.StatusOK, "Chat and messages deleted as the group had less than 2 participants")
	}

	return response.Message(c, http.StatusOK, "User removed successfully from the group")
}

// GetUserChats lists the caller's chats, most recently active first.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, echo.Map{"chats": chats})
}
