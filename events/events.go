package events

import (
	"fmt"
	"time"
)

const (
	MessageSent   = "message.sent"
	FollowToggled = "follow.toggled"
	PostLiked     = "post.liked"
	PostCreated   = "post.created"
	CommentAdded  = "post.comment.added"
)

// MessagesFor is the per-recipient subject live chat clients listen on.
func MessagesFor(userID int64) string {
	return fmt.Sprintf("messages.%d", userID)
}

type MessageSentEvent struct {
	MessageID  int64     `json:"message_id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type FollowToggledEvent struct {
	FollowerID     int64     `json:"follower_id"`
	FollowingID    int64     `json:"following_id"`
	IsFollowing    bool      `json:"is_following"`
	FollowersCount int       `json:"followers_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type PostLikedEvent struct {
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	Liked      bool      `json:"liked"`
	LikeCount  int       `json:"like_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PostCreatedEvent struct {
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentAddedEvent struct {
	CommentID int64     `json:"comment_id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
