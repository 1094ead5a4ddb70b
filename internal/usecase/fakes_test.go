package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"edulearn/internal/domain/entity"
	"edulearn/pkg/errors"
)

// fakeChatRepo is an in-memory ChatRepository mirroring the store's
// contract: CreateMessage updates lastMessage atomically, the cascade
// delete is idempotent, and missing documents surface as NOT_FOUND.
type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message // chatID -> messages in insert order
	nextID   int

	failCreateMessage error
	failCascade       error
	deletedChats      []string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	chat.ID = fmt.Sprintf("chat-%d", r.nextID)
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = chat.CreatedAt
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) GetPrivateByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, chat := range r.chats {
		if !chat.IsGroup && chat.PairKey == pairKey {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			copied := *chat
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (r *fakeChatRepo) AddParticipant(ctx context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	if !chat.HasParticipant(userID) {
		chat.Participants = append(chat.Participants, userID)
	}
	chat.UpdatedAt = time.Now()
	return nil
}

func (r *fakeChatRepo) RemoveParticipant(ctx context.Context, chatID, userID string) (*entity.Chat, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[chatID]
	if !ok {
		return nil, false, errors.NotFound("Chat", nil)
	}

	remaining := make([]string, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		if p != userID {
			remaining = append(remaining, p)
		}
	}
	admins := make([]string, 0, len(chat.Admins))
	for _, a := range chat.Admins {
		if a != userID {
			admins = append(admins, a)
		}
	}

	if len(remaining) < 2 {
		copied := *chat
		copied.Participants = remaining
		copied.Admins = admins
		return &copied, true, nil
	}

	chat.Participants = remaining
	chat.Admins = admins
	chat.UpdatedAt = time.Now()
	copied := *chat
	return &copied, false, nil
}

func (r *fakeChatRepo) DeleteWithMessages(ctx context.Context, chatID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// An interrupted cascade leaves the chat and its messages in place so
	// a re-run can finish the job, matching the store's contract.
	if r.failCascade != nil {
		return r.failCascade
	}

	delete(r.messages, chatID)
	delete(r.chats, chatID)
	r.deletedChats = append(r.deletedChats, chatID)
	return nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreateMessage != nil {
		return r.failCreateMessage
	}

	chat, ok := r.chats[message.ChatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}

	r.nextID++
	message.ID = fmt.Sprintf("msg-%d", r.nextID)
	message.CreatedAt = time.Now()
	copied := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &copied)

	chat.LastMessageID = message.ID
	chat.UpdatedAt = message.CreatedAt
	return nil
}

func (r *fakeChatRepo) ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Message
	for _, message := range r.messages[chatID] {
		copied := *message
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeChatRepo) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, message := range r.messages[chatID] {
		if message.ID == messageID {
			copied := *message
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) messageCount(chatID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages[chatID])
}

func (r *fakeChatRepo) chatCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = fmt.Sprintf("notif-%d", len(r.notifications)+1)
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *fakeNotificationRepo) forUser(userID string) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}
