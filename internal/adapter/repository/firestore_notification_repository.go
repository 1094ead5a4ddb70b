package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	"edulearn/pkg/errors"
	"edulearn/pkg/logger"
)

type firestoreNotificationRepository struct {
	client  *firestore.Client
	timeout time.Duration
}

func NewFirestoreNotificationRepository(client *firestore.Client, timeout time.Duration) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client:  client,
		timeout: timeout,
	}
}

func (r *firestoreNotificationRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	notification.CreatedAt = time.Now()

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := withRetry(ctx, "create notification", func(ctx context.Context) error {
		_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
		return err
	})
	if err != nil {
		return storeErr("create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Notification, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	query := r.client.Collection("notifications").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, storeErr("fetch notifications", err)
	}

	var notifications []*entity.Notification
	for _, doc := range docs {
		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			logger.Warn("Skipping malformed notification document %s: %v", doc.Ref.ID, err)
			continue
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	ref := r.client.Collection("notifications").Doc(notificationID)

	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", nil)
		}
		return storeErr("get notification", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return errors.Persistence("Failed to parse notification data", err)
	}
	if notification.UserID != userID {
		return errors.NotFound("Notification", nil)
	}

	_, err = ref.Update(ctx, []firestore.Update{{Path: "read", Value: true}})
	if err != nil {
		return storeErr("update notification", err)
	}

	return nil
}
