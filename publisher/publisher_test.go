package publisher

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"my-social/events"
	models "my-social/model"
	natsClient "my-social/nats"
)

func TestPublishMessageSentReachesRecipient(t *testing.T) {
	bus := natsClient.NewLocalBus()
	p := NewEventPublisher(bus)

	var live models.Message
	var shared events.MessageSentEvent
	_, _ = bus.Subscribe(events.MessagesFor(2), func(data []byte) { _ = json.Unmarshal(data, &live) })
	_, _ = bus.Subscribe(events.MessageSent, func(data []byte) { _ = json.Unmarshal(data, &shared) })

	msg := &models.Message{ID: 5, SenderID: 1, ReceiverID: 2, Content: "hi", CreatedAt: time.Now()}
	if err := p.PublishMessageSent(msg); err != nil {
		t.Fatalf("PublishMessageSent() error = %v", err)
	}

	if live.ID != 5 || live.Content != "hi" {
		t.Errorf("live message = %+v", live)
	}
	if shared.MessageID != 5 || shared.ReceiverID != 2 {
		t.Errorf("shared event = %+v", shared)
	}
}

func TestPublishFollowAndLike(t *testing.T) {
	bus := natsClient.NewLocalBus()
	p := NewEventPublisher(bus)

	var follow events.FollowToggledEvent
	var like events.PostLikedEvent
	_, _ = bus.Subscribe(events.FollowToggled, func(data []byte) { _ = json.Unmarshal(data, &follow) })
	_, _ = bus.Subscribe(events.PostLiked, func(data []byte) { _ = json.Unmarshal(data, &like) })

	_ = p.PublishFollowToggled(1, &models.FollowStatus{UserID: 2, IsFollowing: true, FollowersCount: 3})
	_ = p.PublishPostLiked(1, &models.LikeInfo{PostID: 9, Count: 4, IsLiked: true})

	if follow.FollowingID != 2 || !follow.IsFollowing || follow.FollowersCount != 3 {
		t.Errorf("follow event = %+v", follow)
	}
	if like.PostID != 9 || like.LikeCount != 4 || !like.Liked {
		t.Errorf("like event = %+v", like)
	}
}

type failingBus struct{ natsClient.Bus }

func (failingBus) Publish(string, interface{}) error { return errors.New("nats down") }

func TestPublishReturnsBusError(t *testing.T) {
	p := NewEventPublisher(failingBus{})
	if err := p.PublishPostCreated(&models.Post{ID: 1}); err == nil {
		t.Error("expected publish error")
	}
	if err := p.PublishCommentAdded(&models.Comment{ID: 1}); err == nil {
		t.Error("expected publish error")
	}
}
