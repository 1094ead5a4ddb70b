package usecase

import (
	"context"

	"github.com/samber/lo"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	"edulearn/internal/domain/service"
	"edulearn/internal/infrastructure/ratelimit"
	"edulearn/pkg/errors"
	"edulearn/pkg/logger"
)

// ChatUseCase owns chat identity and membership: private-chat uniqueness,
// group creation, participant mutation and the group lifecycle rule that a
// chat below two participants is destroyed together with its messages.
type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	notifier    *service.NotificationService
	rateLimiter *ratelimit.RateLimiter
	pairLocks   *pairLocks

	// emptyListAsNotFound keeps the "no chats -> 404" API convention;
	// configurable because reasonable clients expect either.
	emptyListAsNotFound bool
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifier *service.NotificationService,
	emptyListAsNotFound bool,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:            chatRepo,
		userRepo:            userRepo,
		notifier:            notifier,
		rateLimiter:         rateLimiter,
		pairLocks:           newPairLocks(),
		emptyListAsNotFound: emptyListAsNotFound,
	}
}

type CreateGroupChatInput struct {
	Name           string
	ParticipantIDs []string
}

type ChatResponse struct {
	*entity.Chat
	Members     []*entity.User  `json:"members,omitempty"`
	LastMessage *entity.Message `json:"last_message,omitempty"`
}

// RemoveUserResult distinguishes a membership update from a cascade
// deletion of the whole chat.
type RemoveUserResult struct {
	Deleted bool
	Chat    *entity.Chat
}

// CreatePrivateChat finds or creates the single private chat between two
// users. Creation for a pair is serialized on an in-process lock keyed by
// the normalized pair, so two concurrent calls cannot both observe "not
// found" and create duplicates.
func (uc *ChatUseCase) CreatePrivateChat(ctx context.Context, requesterID, otherUserID string) (*entity.Chat, error) {
	if requesterID == otherUserID {
		return nil, errors.BadRequest("You cannot create a chat with yourself", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(requesterID, "create_chat"); !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another chat")
	}

	if _, err := uc.userRepo.GetByID(ctx, otherUserID); err != nil {
		return nil, err
	}

	pairKey := entity.PairKey(requesterID, otherUserID)
	release := uc.pairLocks.Acquire(pairKey)
	defer release()

	existing, err := uc.chatRepo.GetPrivateByPairKey(ctx, pairKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	chat := &entity.Chat{
		IsGroup:      false,
		Participants: []string{requesterID, otherUserID},
		Admins:       []string{},
		PairKey:      pairKey,
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// CreateGroupChat creates a group with the requester added as participant
// and sole initial admin.
func (uc *ChatUseCase) CreateGroupChat(ctx context.Context, requesterID string, input CreateGroupChatInput) (*entity.Chat, error) {
	if input.Name == "" || len(input.ParticipantIDs) < 2 {
		return nil, errors.BadRequest("You must enter a group name and at least two members", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(requesterID, "create_chat"); !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another chat")
	}

	participants := make([]string, 0, len(input.ParticipantIDs)+1)
	participants = append(participants, input.ParticipantIDs...)
	participants = append(participants, requesterID)

	chat := &entity.Chat{
		Name:         input.Name,
		IsGroup:      true,
		Participants: lo.Uniq(participants),
		Admins:       []string{requesterID},
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// AddUserToGroup appends a user to a group chat. Adding to a private chat
// is not a supported operation and reads as "group does not exist".
func (uc *ChatUseCase) AddUserToGroup(ctx context.Context, chatID, userID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsGroup {
		return errors.NotFound("Group", nil)
	}

	if chat.HasParticipant(userID) {
		return errors.Conflict("The user is already in the group")
	}

	if err := uc.chatRepo.AddParticipant(ctx, chat.ID, userID); err != nil {
		return err
	}

	uc.notifier.Notify(ctx, userID, entity.NotificationGroupAdded, "You were added to "+chat.Name, chat.ID)

	return nil
}

// RemoveUserFromGroup removes a user from a chat's participant set.
// Removing a non-member is a silent no-op. When the remaining set drops
// below two, the chat and every message it owns are destroyed.
func (uc *ChatUseCase) RemoveUserFromGroup(ctx context.Context, chatID, targetUserID, requesterID string) (*RemoveUserResult, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(requesterID) {
		return nil, errors.Forbidden("You are not a participant of this group", nil)
	}

	wasParticipant := chat.HasParticipant(targetUserID)

	updated, belowFloor, err := uc.chatRepo.RemoveParticipant(ctx, chat.ID, targetUserID)
	if err != nil {
		return nil, err
	}

	if belowFloor {
		if err := uc.chatRepo.DeleteWithMessages(ctx, chat.ID); err != nil {
			return nil, err
		}
		logger.Info("Chat %s deleted: participant count dropped below 2", chat.ID)
		if wasParticipant {
			uc.notifier.Notify(ctx, targetUserID, entity.NotificationGroupRemoved, "You were removed from "+chat.Name, chat.ID)
		}
		return &RemoveUserResult{Deleted: true}, nil
	}

	if wasParticipant {
		uc.notifier.Notify(ctx, targetUserID, entity.NotificationGroupRemoved, "You were removed from "+chat.Name, chat.ID)
	}

	return &RemoveUserResult{Deleted: false, Chat: updated}, nil
}

// GetUserChats returns the user's chats ordered most-recently-updated
// first, with participant identities and the lastMessage weak reference
// resolved.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*ChatResponse, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(chats) == 0 && uc.emptyListAsNotFound {
		return nil, errors.New("NOT_FOUND", "No chats found for this user", 404, nil)
	}

	responses := make([]*ChatResponse, 0, len(chats))
	for _, chat := range chats {
		resp := &ChatResponse{Chat: chat}

		members, err := uc.userRepo.GetByIDs(ctx, chat.Participants)
		if err != nil {
			logger.Warn("Could not resolve participants for chat %s: %v", chat.ID, err)
		} else {
			resp.Members = members
		}

		if chat.LastMessageID != "" {
			lastMessage, err := uc.chatRepo.GetMessageByID(ctx, chat.ID, chat.LastMessageID)
			switch {
			case err == nil:
				resp.LastMessage = lastMessage
			case errors.Is(err, "NOT_FOUND"):
				// Weak reference: the message may be gone, the chat is
				// still served.
			default:
				logger.Warn("Could not resolve last message for chat %s: %v", chat.ID, err)
			}
		}

		responses = append(responses, resp)
	}

	return responses, nil
}
