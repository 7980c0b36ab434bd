package repository

import (
	"context"
	"fmt"
	"time"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/slotstore"
)

type MessageRepository interface {
	ListConversations(ctx context.Context, me int64) ([]models.Conversation, error)
	GetThread(ctx context.Context, me, other int64) (*models.ChatThread, error)
	Send(ctx context.Context, from, to int64, content string) (*models.Message, error)
	UnreadCount(ctx context.Context, me int64) (int, error)
}

type messageRepository struct {
	slots *slotstore.Slots
	now   func() time.Time
}

func NewMessageRepository(slots *slotstore.Slots) MessageRepository {
	return &messageRepository{slots: slots, now: time.Now}
}

// ListConversations groups every message involving me by the other party.
func (r *messageRepository) ListConversations(ctx context.Context, me int64) ([]models.Conversation, error) {
	messages, err := slotstore.Load[models.Message](ctx, r.slots, slotstore.SlotMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	users, err := slotstore.Load[models.User](ctx, r.slots, slotstore.SlotUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	conversations := aggregate.BuildConversations(messages, aggregate.IndexUsers(users), me)
	aggregate.Present(conversations, r.now())

	return conversations, nil
}

// GetThread returns the chat between me and other and marks the messages
// other sent to me as read. The read and the write are separate slot
// operations.
func (r *messageRepository) GetThread(ctx context.Context, me, other int64) (*models.ChatThread, error) {
	users, err := slotstore.Load[models.User](ctx, r.slots, slotstore.SlotUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	messages, err := slotstore.Load[models.Message](ctx, r.slots, slotstore.SlotMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	thread := &models.ChatThread{
		Messages: aggregate.Thread(messages, me, other),
	}
	if u, ok := aggregate.IndexUsers(users)[other]; ok {
		summary := u.Summary()
		thread.User = &summary
	}

	unread := func(m models.Message) bool {
		return m.SenderID == other && m.ReceiverID == me && !m.IsRead
	}

	if aggregate.UnreadFrom(thread.Messages, other, me) > 0 {
		_, err := slotstore.UpdateWhere(ctx, r.slots, slotstore.SlotMessages, unread, func(m *models.Message) {
			m.IsRead = true
		})
		if err != nil {
			return nil, fmt.Errorf("failed to mark messages read: %w", err)
		}

		for i := range thread.Messages {
			if unread(thread.Messages[i]) {
				thread.Messages[i].IsRead = true
			}
		}
	}

	return thread, nil
}

func (r *messageRepository) Send(ctx context.Context, from, to int64, content string) (*models.Message, error) {
	msg, err := slotstore.AppendWithID(ctx, r.slots, slotstore.SlotMessages, func(id int64) models.Message {
		return models.Message{
			ID:         id,
			SenderID:   from,
			ReceiverID: to,
			Content:    content,
			IsRead:     false,
			CreatedAt:  r.now(),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	return &msg, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, me int64) (int, error) {
	messages, err := slotstore.Load[models.Message](ctx, r.slots, slotstore.SlotMessages)
	if err != nil {
		return 0, fmt.Errorf("failed to load messages: %w", err)
	}

	return aggregate.Count(messages, func(m models.Message) bool {
		return m.ReceiverID == me && !m.IsRead
	}), nil
}
