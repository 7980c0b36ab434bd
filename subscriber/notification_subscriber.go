// Package subscriber turns engagement events into notifications for the
// user on the receiving end.
package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"my-social/aggregate"
	"my-social/events"
	models "my-social/model"
	natsClient "my-social/nats"
	"my-social/repository"
)

type postLookup interface {
	GetByID(ctx context.Context, postID int64) (*models.PostWithCounts, error)
}

type userLookup interface {
	Get(ctx context.Context, userID int64) (*models.User, error)
}

type NotificationSubscriber struct {
	bus   natsClient.Bus
	repo  repository.NotificationRepository
	posts postLookup
	users userLookup
	ctx   context.Context

	unsubscribers []natsClient.Unsubscribe
}

func NewNotificationSubscriber(
	ctx context.Context,
	bus natsClient.Bus,
	repo repository.NotificationRepository,
	posts postLookup,
	users userLookup,
) *NotificationSubscriber {
	return &NotificationSubscriber{
		bus:   bus,
		repo:  repo,
		posts: posts,
		users: users,
		ctx:   ctx,
	}
}

func (s *NotificationSubscriber) Start() error {
	handlers := map[string]func([]byte) error{
		events.FollowToggled: s.handleFollowToggled,
		events.PostLiked:     s.handlePostLiked,
		events.CommentAdded:  s.handleCommentAdded,
	}

	for subject, handle := range handlers {
		subject, handle := subject, handle
		unsubscribe, err := s.bus.Subscribe(subject, func(data []byte) {
			if err := handle(data); err != nil {
				log.Printf("Error handling %s event: %v", subject, err)
			}
		})
		if err != nil {
			s.Stop()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		s.unsubscribers = append(s.unsubscribers, unsubscribe)
	}

	log.Println("Notification subscriber started successfully")
	return nil
}

func (s *NotificationSubscriber) Stop() {
	for _, unsubscribe := range s.unsubscribers {
		if err := unsubscribe(); err != nil {
			log.Printf("Error unsubscribing notification handler: %v", err)
		}
	}
	s.unsubscribers = nil
}

func (s *NotificationSubscriber) handleFollowToggled(data []byte) error {
	var event events.FollowToggledEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to decode follow event: %w", err)
	}
	if !event.IsFollowing {
		return nil
	}

	return s.notify(&models.Notification{
		UserID:  event.FollowingID,
		Type:    models.NotificationTypeFollow,
		Message: s.nickname(event.FollowerID) + "님이 회원님을 팔로우하기 시작했습니다.",
		ActorID: event.FollowerID,
	})
}

func (s *NotificationSubscriber) handlePostLiked(data []byte) error {
	var event events.PostLikedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to decode like event: %w", err)
	}
	if !event.Liked {
		return nil
	}

	owner, err := s.postOwner(event.PostID)
	if err != nil || owner == 0 {
		return err
	}

	postID := event.PostID
	return s.notify(&models.Notification{
		UserID:    owner,
		Type:      models.NotificationTypeLike,
		Message:   s.nickname(event.UserID) + "님이 회원님의 게시물을 좋아합니다.",
		ActorID:   event.UserID,
		RelatedID: &postID,
	})
}

func (s *NotificationSubscriber) handleCommentAdded(data []byte) error {
	var event events.CommentAddedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to decode comment event: %w", err)
	}

	owner, err := s.postOwner(event.PostID)
	if err != nil || owner == 0 {
		return err
	}

	postID := event.PostID
	return s.notify(&models.Notification{
		UserID:    owner,
		Type:      models.NotificationTypeComment,
		Message:   s.nickname(event.UserID) + "님이 회원님의 게시물에 댓글을 남겼습니다.",
		ActorID:   event.UserID,
		RelatedID: &postID,
	})
}

// notify stores n unless the recipient is also the actor.
func (s *NotificationSubscriber) notify(n *models.Notification) error {
	if n.UserID == n.ActorID {
		return nil
	}
	if err := s.repo.Create(s.ctx, n); err != nil {
		return err
	}
	log.Printf("Created %s notification for user %d", n.Type, n.UserID)
	return nil
}

// postOwner returns zero without error when the post no longer exists.
func (s *NotificationSubscriber) postOwner(postID int64) (int64, error) {
	post, err := s.posts.GetByID(s.ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return post.UserID, nil
}

func (s *NotificationSubscriber) nickname(userID int64) string {
	user, err := s.users.Get(s.ctx, userID)
	if err != nil || user.Nickname == "" {
		return aggregate.UnknownAuthor
	}
	return user.Nickname
}
