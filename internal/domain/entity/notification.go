package entity

import "time"

const (
	NotificationGroupAdded   = "group_added"
	NotificationGroupRemoved = "group_removed"
)

type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Kind      string    `json:"kind" firestore:"kind"`
	Body      string    `json:"body" firestore:"body"`
	ChatID    string    `json:"chat_id,omitempty" firestore:"chatId,omitempty"`
	Read      bool      `json:"read" firestore:"read"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
