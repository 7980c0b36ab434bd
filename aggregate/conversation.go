package aggregate

import (
	"sort"

	models "my-social/model"
)

// BuildConversations groups the messages involving me by the other party,
// counts unread messages addressed to me, joins the other party's profile
// and orders the result newest conversation first.
//
// A conversation whose other party has no user record keeps a nil User.
func BuildConversations(messages []models.Message, users map[int64]models.User, me int64) []models.Conversation {
	groups := make(map[int64]*models.Conversation)
	var order []int64

	for _, msg := range Filter(messages, Involving(me)) {
		other := msg.SenderID
		if msg.SenderID == me {
			other = msg.ReceiverID
		}

		conv, ok := groups[other]
		if !ok {
			conv = &models.Conversation{UserID: other}
			groups[other] = conv
			order = append(order, other)
		}

		conv.Messages = append(conv.Messages, msg)
		if msg.ReceiverID == me && !msg.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]models.Conversation, 0, len(order))
	for _, id := range order {
		conv := groups[id]

		if u, ok := users[id]; ok {
			summary := u.Summary()
			conv.User = &summary
		}

		sortNewestFirst(conv.Messages)
		last := conv.Messages[0]
		conv.LastMessage = &last

		conversations = append(conversations, *conv)
	}

	SortConversations(conversations)
	return conversations
}

// Thread returns the messages between me and other, oldest first.
func Thread(messages []models.Message, me, other int64) []models.Message {
	thread := Filter(messages, Between(me, other))
	sort.SliceStable(thread, func(i, j int) bool {
		return thread[i].CreatedAt.Before(thread[j].CreatedAt)
	})
	return thread
}

// UnreadFrom counts messages from sender to receiver not yet read.
func UnreadFrom(messages []models.Message, sender, receiver int64) int {
	return Count(messages, func(m models.Message) bool {
		return SentTo(sender, receiver)(m) && !m.IsRead
	})
}

// TotalUnread sums unread counts across conversations.
func TotalUnread(conversations []models.Conversation) int {
	total := 0
	for _, c := range conversations {
		total += c.UnreadCount
	}
	return total
}

func sortNewestFirst(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}
