package websocket

import (
	"context"
	"encoding/json"
	"time"

	"edulearn/internal/domain/entity"
	"edulearn/pkg/logger"
)

const (
	EventPing           = "ping"
	EventPong           = "pong"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
	EventChatUpdate     = "chat_update"
	EventNotification   = "notification"
	EventError          = "error"
)

type Event struct {
	Type      string      `json:"type"`
	ChatID    string      `json:"chat_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type sendMessageData struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

// ChatService is the message engine contract the push channel delegates to.
// The socket never writes messages itself; every inbound send goes through
// the same participant-checked path as the REST API.
type ChatService interface {
	SendChatMessage(ctx context.Context, senderID, chatID, text string) (*entity.Message, error)
	IsChatParticipant(ctx context.Context, userID, chatID string) (bool, error)
}

const clientRequestTimeout = 10 * time.Second

// HandleClientMessage dispatches one inbound client event.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var event Event
	if err := json.Unmarshal(messageBytes, &event); err != nil {
		logger.Warn("Malformed event from client %s: %v", client.UserID, err)
		m.sendError(client, "Invalid event format")
		return
	}

	switch event.Type {
	case EventPing:
		m.EmitToUser(client.UserID, Event{Type: EventPong})

	case EventJoinRoom:
		m.handleJoinRoom(client, event)

	case EventLeaveRoom:
		if event.ChatID == "" {
			m.sendError(client, "Missing chat_id")
			return
		}
		m.LeaveRoom(event.ChatID, client.UserID)

	case EventSendMessage:
		m.handleSendMessage(client, event)

	default:
		m.sendError(client, "Unknown event type")
	}
}

func (m *Manager) handleJoinRoom(client *Client, event Event) {
	if event.ChatID == "" {
		m.sendError(client, "Missing chat_id")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), clientRequestTimeout)
	defer cancel()

	ok, err := m.chat.IsChatParticipant(ctx, client.UserID, event.ChatID)
	if err != nil {
		m.sendError(client, "Could not verify chat membership")
		return
	}
	if !ok {
		m.sendError(client, "You are not a participant in this chat")
		return
	}

	m.JoinRoom(event.ChatID, client.UserID)
	logger.Info("Client %s joined chat room %s", client.UserID, event.ChatID)
}

func (m *Manager) handleSendMessage(client *Client, event Event) {
	var payload sendMessageData
	if event.Data != nil {
		dataBytes, err := json.Marshal(event.Data)
		if err != nil {
			m.sendError(client, "Invalid send_message data")
			return
		}
		if err := json.Unmarshal(dataBytes, &payload); err != nil {
			m.sendError(client, "Invalid send_message format")
			return
		}
	}
	if payload.ChatID == "" {
		payload.ChatID = event.ChatID
	}
	if payload.ChatID == "" || payload.Message == "" {
		m.sendError(client, "Missing chat_id or message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), clientRequestTimeout)
	defer cancel()

	// The engine persists the message and fans it out to the room.
	if _, err := m.chat.SendChatMessage(ctx, client.UserID, payload.ChatID, payload.Message); err != nil {
		logger.Warn("Socket send_message rejected for user %s in chat %s: %v", client.UserID, payload.ChatID, err)
		m.sendError(client, err.Error())
	}
}

// EmitToChatRoom marshals an event and broadcasts it to a chat's
// subscribers.
func (m *Manager) EmitToChatRoom(chatID string, event Event) {
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal %s event for chat %s: %v", event.Type, chatID, err)
		return
	}
	m.BroadcastToChatRoom(chatID, payload)
}

// EmitToUser marshals an event and delivers it to one user.
func (m *Manager) EmitToUser(userID string, event Event) {
	event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal %s event for user %s: %v", event.Type, userID, err)
		return
	}
	m.SendToUser(userID, payload)
}

func (m *Manager) sendError(client *Client, message string) {
	m.EmitToUser(client.UserID, Event{
		Type: EventError,
		Data: map[string]string{"message": message},
	})
}
