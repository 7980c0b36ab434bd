package publisher

import (
	"log"
	"time"

	"my-social/events"
	models "my-social/model"
	natsClient "my-social/nats"
)

type EventPublisher struct {
	bus natsClient.Bus
}

func NewEventPublisher(bus natsClient.Bus) *EventPublisher {
	return &EventPublisher{bus: bus}
}

// PublishMessageSent announces a message on the shared subject and on the
// recipient's live subject.
func (p *EventPublisher) PublishMessageSent(msg *models.Message) error {
	event := events.MessageSentEvent{
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}

	if err := p.bus.Publish(events.MessageSent, event); err != nil {
		return err
	}
	if err := p.bus.Publish(events.MessagesFor(msg.ReceiverID), msg); err != nil {
		return err
	}

	log.Printf("Published event: %s for message %d", events.MessageSent, msg.ID)
	return nil
}

func (p *EventPublisher) PublishFollowToggled(followerID int64, status *models.FollowStatus) error {
	event := events.FollowToggledEvent{
		FollowerID:     followerID,
		FollowingID:    status.UserID,
		IsFollowing:    status.IsFollowing,
		FollowersCount: status.FollowersCount,
		OccurredAt:     time.Now(),
	}

	if err := p.bus.Publish(events.FollowToggled, event); err != nil {
		return err
	}

	log.Printf("Published event: %s for %d -> %d", events.FollowToggled, followerID, status.UserID)
	return nil
}

func (p *EventPublisher) PublishPostLiked(userID int64, info *models.LikeInfo) error {
	event := events.PostLikedEvent{
		PostID:     info.PostID,
		UserID:     userID,
		Liked:      info.IsLiked,
		LikeCount:  info.Count,
		OccurredAt: time.Now(),
	}

	if err := p.bus.Publish(events.PostLiked, event); err != nil {
		return err
	}

	log.Printf("Published event: %s for post %d", events.PostLiked, info.PostID)
	return nil
}

func (p *EventPublisher) PublishPostCreated(post *models.Post) error {
	event := events.PostCreatedEvent{
		PostID:    post.ID,
		UserID:    post.UserID,
		Title:     post.Title,
		CreatedAt: post.CreatedAt,
	}

	if err := p.bus.Publish(events.PostCreated, event); err != nil {
		return err
	}

	log.Printf("Published event: %s for post %d", events.PostCreated, post.ID)
	return nil
}

func (p *EventPublisher) PublishCommentAdded(comment *models.Comment) error {
	event := events.CommentAddedEvent{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}

	if err := p.bus.Publish(events.CommentAdded, event); err != nil {
		return err
	}

	log.Printf("Published event: %s for comment %d", events.CommentAdded, comment.ID)
	return nil
}
