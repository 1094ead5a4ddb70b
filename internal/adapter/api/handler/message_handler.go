package handler

import (
	"github.com/labstack/echo/v4"

	"edulearn/internal/usecase"
	"edulearn/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// SendMessage persists a message in a chat the caller belongs to and fans
// it out to live subscribers.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID, _ := c.Get("uid").(string)

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID:  req.ChatID,
		Message: req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, echo.Map{"message": message})
}

// GetMessages returns a chat's history oldest first.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	chatID := c.Param("chatId")

	messages, err := h.messageUseCase.GetMessages(c.Request().Context(), chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, echo.Map{"messages": messages})
}
