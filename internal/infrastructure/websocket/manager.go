package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"edulearn/pkg/logger"
)

// Client represents one connected WebSocket session.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Manager tracks connected clients and their chat-room subscriptions.
// Broadcasts are scoped to a room's subscriber set; nothing is ever pushed
// to the whole connection pool.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]bool // chatID -> subscribed user IDs
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
	chat       ChatService
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// SetChatService wires the message engine in after construction; the engine
// itself holds a reference to the manager for fan-out.
func (m *Manager) SetChatService(chat ChatService) {
	m.chat = chat
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				logger.Info("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.dropClient(client.UserID)
				logger.Info("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) dropClient(userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[userID]; ok {
		delete(m.clients, userID)
		close(client.Send)
	}
	for chatID, members := range m.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, chatID)
		}
	}
}

// JoinRoom subscribes a user to a chat's broadcasts.
func (m *Manager) JoinRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[chatID] == nil {
		m.rooms[chatID] = make(map[string]bool)
	}
	m.rooms[chatID][userID] = true
}

func (m *Manager) LeaveRoom(chatID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.rooms[chatID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.rooms, chatID)
		}
	}
}

// RoomMembers returns the user IDs currently subscribed to a chat.
func (m *Manager) RoomMembers(chatID string) []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var members []string
	for userID := range m.rooms[chatID] {
		members = append(members, userID)
	}
	return members
}

// SendToUser delivers a raw payload to one connected user, if online.
// The non-blocking send happens under the read lock: dropClient closes
// Send only under the write lock, so a send can never race the close.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	full := false
	if client, ok := m.clients[userID]; ok {
		select {
		case client.Send <- message:
		default:
			full = true
		}
	}
	m.mutex.RUnlock()

	if full {
		logger.Warn("Send buffer full for client %s, dropping connection", userID)
		m.dropClient(userID)
	}
}

// BroadcastToChatRoom delivers a raw payload to every user subscribed to
// the chat. Same locking discipline as SendToUser.
func (m *Manager) BroadcastToChatRoom(chatID string, message []byte) {
	m.mutex.RLock()
	var full []string
	for userID := range m.rooms[chatID] {
		client, ok := m.clients[userID]
		if !ok {
			continue
		}
		select {
		case client.Send <- message:
		default:
			full = append(full, userID)
		}
	}
	m.mutex.RUnlock()

	for _, userID := range full {
		logger.Warn("Send buffer full for client %s, dropping connection", userID)
		m.dropClient(userID)
	}
}

// ReadPump reads messages from the WebSocket connection and dispatches them.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("WebSocket write error for %s: %v", c.UserID, err)
			return
		}
	}
}
