package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypeFollow  NotificationType = "FOLLOW"
	NotificationTypeLike    NotificationType = "LIKE"
	NotificationTypeComment NotificationType = "COMMENT"
)

// Notification is one entry of a notifications_<userId> slot.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	ActorID   int64            `json:"actor_id"`
	RelatedID *int64           `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
