package repository

import (
	"context"

	"edulearn/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	GetPrivateByPairKey(ctx context.Context, pairKey string) (*entity.Chat, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)

	// AddParticipant appends the user to the chat's participant set as a
	// single atomic store operation; adding an existing member is a no-op
	// at this layer.
	AddParticipant(ctx context.Context, chatID, userID string) error

	// RemoveParticipant atomically filters the user out of the chat's
	// participant and admin sets. When removal would leave fewer than two
	// participants nothing is written; the returned chat carries the
	// reduced sets and belowFloor is true so the caller can run the
	// cascade instead.
	RemoveParticipant(ctx context.Context, chatID, userID string) (chat *entity.Chat, belowFloor bool, err error)

	// DeleteWithMessages removes every message owned by the chat and then
	// the chat itself. Message deletion is idempotent so the cascade can be
	// re-run if it is interrupted between the two steps.
	DeleteWithMessages(ctx context.Context, chatID string) error

	// CreateMessage persists the message and points the owning chat's
	// lastMessage at it in a single transaction.
	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error)
	GetMessageByID(ctx context.Context, chatID, messageID string) (*entity.Message, error)
}
