package models

import (
	"time"
)

type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation groups every message exchanged with one other party.
// User is nil when the other party's record no longer exists.
type Conversation struct {
	UserID      int64        `json:"user_id"`
	User        *UserSummary `json:"user"`
	Messages    []Message    `json:"messages"`
	UnreadCount int          `json:"unread_count"`
	LastMessage *Message     `json:"last_message"`
	TimeAgo     string       `json:"time_ago"`
}

func (c Conversation) DisplayName() string {
	if c.User == nil {
		return ""
	}
	return c.User.Nickname
}

type ChatThread struct {
	User     *UserSummary `json:"user"`
	Messages []Message    `json:"messages"`
}

type SendMessageInput struct {
	Content string `json:"content"`
}
