package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	"edulearn/pkg/errors"
	"edulearn/pkg/logger"
)

type firestoreChatRepository struct {
	client  *firestore.Client
	timeout time.Duration
}

func NewFirestoreChatRepository(client *firestore.Client, timeout time.Duration) repository.ChatRepository {
	return &firestoreChatRepository{
		client:  client,
		timeout: timeout,
	}
}

func (r *firestoreChatRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}

	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := withRetry(ctx, "create chat", func(ctx context.Context) error {
		_, err := r.client.Collection("chats").Doc(chat.ID).Set(ctx, chat)
		return err
	})
	if err != nil {
		return storeErr("create chat", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, storeErr("get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Persistence("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) GetPrivateByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	query := r.client.Collection("chats").
		Where("isGroup", "==", false).
		Where("pairKey", "==", pairKey).
		Limit(1)

	doc, err := query.Documents(ctx).Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Chat", nil)
		}
		return nil, storeErr("query private chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Persistence("Failed to parse chat data", err)
	}

	return &chat, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, storeErr("fetch chats", err)
	}

	var chats []*entity.Chat
	for _, doc := range docs {
		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			logger.Warn("Skipping malformed chat document %s: %v", doc.Ref.ID, err)
			continue
		}
		chats = append(chats, &chat)
	}

	return chats, nil
}

// AddParticipant uses a server-side ArrayUnion, so concurrent membership
// mutations on the same chat cannot overwrite each other.
func (r *firestoreChatRepository) AddParticipant(ctx context.Context, chatID, userID string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := withRetry(ctx, "add participant", func(ctx context.Context) error {
		_, err := r.client.Collection("chats").Doc(chatID).Update(ctx, []firestore.Update{
			{Path: "participants", Value: firestore.ArrayUnion(userID)},
			{Path: "updatedAt", Value: time.Now()},
		})
		return err
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", nil)
		}
		return storeErr("add participant", err)
	}

	return nil
}

// RemoveParticipant runs the filter and the floor decision inside one
// transaction, so the participant count it acts on is the count it writes
// against.
func (r *firestoreChatRepository) RemoveParticipant(ctx context.Context, chatID, userID string) (*entity.Chat, bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	chatRef := r.client.Collection("chats").Doc(chatID)

	var chat entity.Chat
	var belowFloor bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(chatRef)
		if err != nil {
			return err
		}
		if err := doc.DataTo(&chat); err != nil {
			return err
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

		chat.Participants = remaining
		chat.Admins = admins

		if len(remaining) < 2 {
			belowFloor = true
			return nil
		}

		chat.UpdatedAt = time.Now()
		return tx.Update(chatRef, []firestore.Update{
			{Path: "participants", Value: remaining},
			{Path: "admins", Value: admins},
			{Path: "updatedAt", Value: chat.UpdatedAt},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, errors.NotFound("Chat", nil)
		}
		return nil, false, storeErr("remove participant", err)
	}

	return &chat, belowFloor, nil
}

// DeleteWithMessages removes messages first, then the chat record, so an
// interrupted cascade never leaves messages whose owner is gone while the
// chat still looks alive. Message deletion is idempotent: re-running the
// cascade after a crash between the two steps finishes the job.
func (r *firestoreChatRepository) DeleteWithMessages(ctx context.Context, chatID string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	chatRef := r.client.Collection("chats").Doc(chatID)

	iter := chatRef.Collection("messages").Documents(ctx)
	bw := r.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return storeErr("iterate chat messages", err)
		}
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			return storeErr("delete chat messages", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	// Enqueueing never fails for a valid ref; the per-document outcome only
	// lands in the job results after End. The chat record stays until every
	// message delete is confirmed, so a failed cascade is re-runnable.
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errors.PartialFailure("Some chat messages could not be deleted; the chat record was kept", err)
		}
	}

	err := withRetry(ctx, "delete chat", func(ctx context.Context) error {
		_, err := chatRef.Delete(ctx)
		return err
	})
	if err != nil {
		return errors.PartialFailure("Chat messages were deleted but the chat record was not", err)
	}

	return nil
}

// CreateMessage writes the message and repoints the chat's lastMessage in
// one transaction: neither write is ever visible without the other.
func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	chatRef := r.client.Collection("chats").Doc(message.ChatID)
	msgRef := chatRef.Collection("messages").Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(chatRef); err != nil {
			return err
		}
		if err := tx.Create(msgRef, message); err != nil {
			return err
		}
		return tx.Update(chatRef, []firestore.Update{
			{Path: "lastMessageId", Value: message.ID},
			{Path: "updatedAt", Value: message.CreatedAt},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", err)
		}
		return storeErr("create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	query := r.client.Collection("chats").Doc(chatID).Collection("messages").
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeErr("iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Persistence("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	doc, err := r.client.Collection("chats").Doc(chatID).Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", nil)
		}
		return nil, storeErr("get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Persistence("Failed to parse message data", err)
	}

	return &message, nil
}
