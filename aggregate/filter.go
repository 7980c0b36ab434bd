// Package aggregate joins and summarizes records loaded from flat slots:
// conversations from messages, profile statistics from follow edges,
// bookmarked posts and the home feed.
package aggregate

import (
	models "my-social/model"
)

// Filter returns the records for which pred holds, preserving order.
func Filter[T any](records []T, pred func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func Count[T any](records []T, pred func(T) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

func Any[T any](records []T, pred func(T) bool) bool {
	for _, r := range records {
		if pred(r) {
			return true
		}
	}
	return false
}

// Involving matches messages sent or received by userID.
func Involving(userID int64) func(models.Message) bool {
	return func(m models.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	}
}

// Between matches messages exchanged in either direction between a and b.
func Between(a, b int64) func(models.Message) bool {
	return func(m models.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) ||
			(m.SenderID == b && m.ReceiverID == a)
	}
}

// SentTo matches messages from sender addressed to receiver.
func SentTo(sender, receiver int64) func(models.Message) bool {
	return func(m models.Message) bool {
		return m.SenderID == sender && m.ReceiverID == receiver
	}
}

func AuthoredBy(userID int64) func(models.Post) bool {
	return func(p models.Post) bool {
		return p.UserID == userID
	}
}

// Following matches edges pointing at userID, i.e. its followers.
func Following(userID int64) func(models.Follow) bool {
	return func(f models.Follow) bool {
		return f.FollowingID == userID
	}
}

// FollowerOf matches edges starting at userID, i.e. whom it follows.
func FollowerOf(userID int64) func(models.Follow) bool {
	return func(f models.Follow) bool {
		return f.FollowerID == userID
	}
}

func Edge(followerID, followingID int64) func(models.Follow) bool {
	return func(f models.Follow) bool {
		return f.FollowerID == followerID && f.FollowingID == followingID
	}
}

// IndexUsers builds an id lookup once per load so joins avoid rescanning
// the users slot. On duplicate ids the first record wins.
func IndexUsers(users []models.User) map[int64]models.User {
	index := make(map[int64]models.User, len(users))
	for _, u := range users {
		if _, ok := index[u.ID]; !ok {
			index[u.ID] = u
		}
	}
	return index
}

func IndexPosts(posts []models.Post) map[int64]models.Post {
	index := make(map[int64]models.Post, len(posts))
	for _, p := range posts {
		if _, ok := index[p.ID]; !ok {
			index[p.ID] = p
		}
	}
	return index
}
