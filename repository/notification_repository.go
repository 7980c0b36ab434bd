package repository

import (
	"context"
	"fmt"
	"time"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

// NotificationLimit caps how many notifications a user keeps.
const NotificationLimit = 50

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, userID int64) (*models.NotificationList, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAllAsRead(ctx context.Context, userID int64) (int, error)
}

type notificationRepository struct {
	slots *slotstore.Slots
}

func NewNotificationRepository(slots *slotstore.Slots) NotificationRepository {
	return &notificationRepository{slots: slots}
}

// Create prepends the notification to the recipient's slot, dropping the
// oldest entries beyond NotificationLimit.
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == 0 {
		notification.ID = r.slots.NextID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	slot := slotstore.NotificationsSlot(notification.UserID)
	err := slotstore.Mutate(ctx, r.slots, slot, func(list []models.Notification) ([]models.Notification, bool, error) {
		list = append([]models.Notification{*notification}, list...)
		if len(list) > NotificationLimit {
			list = list[:NotificationLimit]
		}
		return list, true, nil
	})
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64) (*models.NotificationList, error) {
	list, err := slotstore.Load[models.Notification](ctx, r.slots, slotstore.NotificationsSlot(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	if list == nil {
		list = []models.Notification{}
	}

	return &models.NotificationList{
		Notifications: list,
		UnreadCount:   aggregate.Count(list, unreadNotification),
	}, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	list, err := slotstore.Load[models.Notification](ctx, r.slots, slotstore.NotificationsSlot(userID))
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return aggregate.Count(list, unreadNotification), nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) (int, error) {
	updated, err := slotstore.UpdateWhere(ctx, r.slots, slotstore.NotificationsSlot(userID), unreadNotification, func(n *models.Notification) {
		n.IsRead = true
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return updated, nil
}

func unreadNotification(n models.Notification) bool {
	return !n.IsRead
}
