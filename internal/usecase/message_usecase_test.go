package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"edulearn/internal/domain/entity"
	ws "edulearn/internal/infrastructure/websocket"
	"edulearn/pkg/errors"
)

func newTestMessageUseCase(chatRepo *fakeChatRepo, userRepo *fakeUserRepo) *MessageUseCase {
	return NewMessageUseCase(chatRepo, userRepo, ws.NewManager())
}

func seedGroupChat(t *testing.T, chatRepo *fakeChatRepo, participants ...string) *entity.Chat {
	t.Helper()
	chat := &entity.Chat{
		Name:         "Operating Systems",
		IsGroup:      true,
		Participants: participants,
		Admins:       participants[:1],
	}
	require.NoError(t, chatRepo.Create(context.Background(), chat))
	return chat
}

func TestMessageUseCase_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist the message and move the chat's last message", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		resp, err := uc.SendMessage(ctx, "alice", SendMessageInput{
			ChatID:  chat.ID,
			Message: "assignment 3 is out",
		})

		req.NoError(err)
		req.NotEmpty(resp.ID)
		req.Equal("alice", resp.SenderID)
		req.Equal("alice", resp.Sender.ID)

		updated, err := chatRepo.GetByID(ctx, chat.ID)
		req.NoError(err)
		req.Equal(resp.ID, updated.LastMessageID)
		req.False(updated.UpdatedAt.Before(updated.CreatedAt))
	})

	t.Run("should reject an empty sender", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		_, err := uc.SendMessage(ctx, "", SendMessageInput{ChatID: chat.ID, Message: "hi"})

		req.Error(err)
		req.True(errors.Is(err, "UNAUTHORIZED"))
	})

	t.Run("should report not found for a missing chat", func(t *testing.T) {
		req := require.New(t)
		uc := newTestMessageUseCase(newFakeChatRepo(), seedUsers("alice"))

		_, err := uc.SendMessage(ctx, "alice", SendMessageInput{ChatID: "no-such-chat", Message: "hi"})

		req.Error(err)
		req.True(errors.Is(err, "NOT_FOUND"))
	})

	t.Run("should forbid a non-participant and leave the chat untouched", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob", "mallory"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		_, err := uc.SendMessage(ctx, "mallory", SendMessageInput{ChatID: chat.ID, Message: "let me in"})

		req.Error(err)
		req.True(errors.Is(err, "FORBIDDEN"))
		req.Equal(0, chatRepo.messageCount(chat.ID))

		updated, getErr := chatRepo.GetByID(ctx, chat.ID)
		req.NoError(getErr)
		req.Empty(updated.LastMessageID)
	})

	t.Run("should throttle a sender who exceeds the message budget", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		var err error
		for i := 0; i < 25; i++ {
			_, err = uc.SendMessage(ctx, "alice", SendMessageInput{
				ChatID:  chat.ID,
				Message: fmt.Sprintf("spam %d", i),
			})
			if err != nil {
				break
			}
		}

		req.Error(err)
		req.True(errors.Is(err, "TOO_MANY_REQUESTS"))
	})
}

func TestMessageUseCase_GetMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("should return history oldest first with senders resolved", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		for i, text := range []string{"first", "second", "third"} {
			sender := "alice"
			if i%2 == 1 {
				sender = "bob"
			}
			req.NoError(chatRepo.CreateMessage(ctx, &entity.Message{ChatID: chat.ID, SenderID: sender, Message: text}))
		}

		messages, err := uc.GetMessages(ctx, chat.ID)

		req.NoError(err)
		req.Len(messages, 3)
		req.Equal("first", messages[0].Message.Message)
		req.Equal("third", messages[2].Message.Message)
		req.Equal("bob", messages[1].Sender.ID)
	})

	t.Run("should return an empty history for a chat with no messages", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		messages, err := uc.GetMessages(ctx, chat.ID)

		req.NoError(err)
		req.Empty(messages)
	})

	t.Run("should keep serving messages whose sender account is gone", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice"))
		chat := seedGroupChat(t, chatRepo, "alice", "departed")
		req.NoError(chatRepo.CreateMessage(ctx, &entity.Message{ChatID: chat.ID, SenderID: "departed", Message: "bye"}))

		messages, err := uc.GetMessages(ctx, chat.ID)

		req.NoError(err)
		req.Len(messages, 1)
		req.Nil(messages[0].Sender)
		req.Equal("departed", messages[0].SenderID)
	})
}

func TestMessageUseCase_ChatServiceContract(t *testing.T) {
	ctx := context.Background()

	t.Run("should confirm membership for a participant", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		ok, err := uc.IsChatParticipant(ctx, "alice", chat.ID)

		req.NoError(err)
		req.True(ok)
	})

	t.Run("should deny membership for an outsider", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob", "mallory"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		ok, err := uc.IsChatParticipant(ctx, "mallory", chat.ID)

		req.NoError(err)
		req.False(ok)
	})

	t.Run("should deny membership for a missing chat without error", func(t *testing.T) {
		req := require.New(t)
		uc := newTestMessageUseCase(newFakeChatRepo(), seedUsers("alice"))

		ok, err := uc.IsChatParticipant(ctx, "alice", "no-such-chat")

		req.NoError(err)
		req.False(ok)
	})

	t.Run("should send through the same checked path as the API", func(t *testing.T) {
		req := require.New(t)
		chatRepo := newFakeChatRepo()
		uc := newTestMessageUseCase(chatRepo, seedUsers("alice", "bob", "mallory"))
		chat := seedGroupChat(t, chatRepo, "alice", "bob")

		message, err := uc.SendChatMessage(ctx, "alice", chat.ID, "via socket")
		req.NoError(err)
		req.Equal("via socket", message.Message)

		_, err = uc.SendChatMessage(ctx, "mallory", chat.ID, "via socket")
		req.Error(err)
		req.True(errors.Is(err, "FORBIDDEN"))
	})
}
