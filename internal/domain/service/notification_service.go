package service

import (
	"context"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	ws "edulearn/internal/infrastructure/websocket"
	"edulearn/pkg/logger"
)

// NotificationService records a notification and pushes it to the target
// user's live session when one exists. Delivery is best effort; a store
// failure is logged, never propagated to the triggering operation.
type NotificationService struct {
	repo      repository.NotificationRepository
	wsManager *ws.Manager
}

func NewNotificationService(repo repository.NotificationRepository, wsManager *ws.Manager) *NotificationService {
	return &NotificationService{
		repo:      repo,
		wsManager: wsManager,
	}
}

func (s *NotificationService) Notify(ctx context.Context, userID, kind, body, chatID string) {
	notification := &entity.Notification{
		UserID: userID,
		Kind:   kind,
		Body:   body,
		ChatID: chatID,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		logger.Warn("Failed to store %s notification for user %s: %v", kind, userID, err)
	}

	s.wsManager.EmitToUser(userID, ws.Event{
		Type: ws.EventNotification,
		Data: notification,
	})
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}
