package usecase

import (
	"context"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	"edulearn/internal/infrastructure/ratelimit"
	ws "edulearn/internal/infrastructure/websocket"
	"edulearn/pkg/errors"
	"edulearn/pkg/logger"
)

// MessageUseCase owns message persistence and fan-out. Both the REST API
// and the push channel create messages through SendMessage, so the
// sender-is-participant check cannot be bypassed by either path.
type MessageUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewMessageUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
) *MessageUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &MessageUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type SendMessageInput struct {
	ChatID  string
	Message string
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

// SendMessage validates the sender against the chat's current participant
// set, persists the message together with the chat's lastMessage update
// (one transaction at the store), then fans the stored record out to the
// chat's live subscribers.
func (uc *MessageUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResponse, error) {
	if senderID == "" {
		return nil, errors.Unauthorized("No sender found", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message")
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, errors.Unauthorized("Sender account not found", err)
	}

	message := &entity.Message{
		ChatID:   input.ChatID,
		SenderID: senderID,
		Message:  input.Message,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	uc.wsManager.EmitToChatRoom(chat.ID, ws.Event{
		Type:   ws.EventReceiveMessage,
		ChatID: chat.ID,
		Data: map[string]interface{}{
			"message": message,
			"sender":  sender,
		},
	})

	// Participants outside the room still get a chat-list refresh hint.
	for _, participantID := range chat.Participants {
		if participantID == senderID {
			continue
		}
		uc.wsManager.EmitToUser(participantID, ws.Event{
			Type:   ws.EventChatUpdate,
			ChatID: chat.ID,
			Data: map[string]interface{}{
				"last_message": message,
				"sender_name":  sender.Name,
			},
		})
	}

	return &MessageResponse{
		Message: message,
		Sender:  sender,
	}, nil
}

// GetMessages returns a chat's history oldest first, with sender identity
// resolved. Any authenticated session may read any chat's history; the
// read path carries no membership check. Known gap, kept visible here
// rather than silently tightened.
func (uc *MessageUseCase) GetMessages(ctx context.Context, chatID string) ([]*MessageResponse, error) {
	messages, err := uc.chatRepo.ListMessagesByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	senders := make(map[string]*entity.User)
	responses := make([]*MessageResponse, 0, len(messages))

	for _, message := range messages {
		resp := &MessageResponse{Message: message}

		sender, ok := senders[message.SenderID]
		if !ok {
			sender, err = uc.userRepo.GetByID(ctx, message.SenderID)
			if err != nil {
				logger.Warn("Sender %s not found for message %s: %v", message.SenderID, message.ID, err)
				sender = nil
			}
			senders[message.SenderID] = sender
		}
		resp.Sender = sender

		responses = append(responses, resp)
	}

	return responses, nil
}

// SendChatMessage implements the push channel's ChatService contract.
func (uc *MessageUseCase) SendChatMessage(ctx context.Context, senderID, chatID, text string) (*entity.Message, error) {
	resp, err := uc.SendMessage(ctx, senderID, SendMessageInput{ChatID: chatID, Message: text})
	if err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// IsChatParticipant implements the push channel's room-join check.
func (uc *MessageUseCase) IsChatParticipant(ctx context.Context, userID, chatID string) (bool, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return false, nil
		}
		return false, err
	}
	return chat.HasParticipant(userID), nil
}
