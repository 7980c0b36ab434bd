package aggregate

import (
	"fmt"
	"sort"
	"time"

	models "my-social/model"
)

// SortConversations orders conversations by last message time, newest
// first. Ties keep their existing order.
func SortConversations(conversations []models.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		return lastMessageTime(conversations[i]).After(lastMessageTime(conversations[j]))
	})
}

// Present fills the relative time label of every conversation.
func Present(conversations []models.Conversation, now time.Time) {
	for i := range conversations {
		conversations[i].TimeAgo = FormatTimeAgo(lastMessageTime(conversations[i]), now)
	}
}

func lastMessageTime(c models.Conversation) time.Time {
	if c.LastMessage == nil {
		return time.Time{}
	}
	return c.LastMessage.CreatedAt
}

// FormatTimeAgo renders the elapsed time between t and now in Korean:
// "방금 전" under a minute, "N분 전" under an hour, "N시간 전" under a day,
// and the calendar date in now's location otherwise.
func FormatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	seconds := int64(now.Sub(t) / time.Second)
	switch {
	case seconds < 60:
		return "방금 전"
	case seconds < 3600:
		return fmt.Sprintf("%d분 전", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d시간 전", seconds/3600)
	default:
		return FormatShortDate(t.In(now.Location()))
	}
}

// FormatShortDate renders t as "2024. 1. 5.".
func FormatShortDate(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d.", t.Year(), int(t.Month()), t.Day())
}

// FormatLongDate renders t as "2024년 1월 5일", or "-" for nil.
func FormatLongDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}

// FormatChatTime renders the clock time of a chat bubble, e.g. "오후 03:05".
func FormatChatTime(t time.Time) string {
	period := "오전"
	if t.Hour() >= 12 {
		period = "오후"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %02d:%02d", period, hour, t.Minute())
}
