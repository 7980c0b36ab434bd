package handler

import (
	"net/http"
	"strings"

	"my-social/aggregate"
	models "my-social/model"
)

type conversationsResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	UnreadTotal   int                   `json:"unread_total"`
}

type chatLine struct {
	models.Message
	TimeLabel string `json:"time_label"`
	Mine      bool   `json:"mine"`
}

type threadResponse struct {
	User     *models.UserSummary `json:"user"`
	Messages []chatLine          `json:"messages"`
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	conversations, err := h.Messages.ListConversations(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, conversationsResponse{
		Conversations: conversations,
		UnreadTotal:   aggregate.TotalUnread(conversations),
	})
}

// UnreadCount backs the unread badge of the navigation bar.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	count, err := h.Messages.UnreadCount(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	other, err := pathID(r, "userID")
	if err != nil {
		fail(w, r, err)
		return
	}

	thread, err := h.Messages.GetThread(r.Context(), me, other)
	if err != nil {
		fail(w, r, err)
		return
	}

	lines := make([]chatLine, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		lines = append(lines, chatLine{
			Message:   msg,
			TimeLabel: aggregate.FormatChatTime(msg.CreatedAt),
			Mine:      msg.SenderID == me,
		})
	}

	writeJSON(w, http.StatusOK, threadResponse{User: thread.User, Messages: lines})
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	other, err := pathID(r, "userID")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in models.SendMessageInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		fail(w, r, invalid("메시지를 입력해주세요."))
		return
	}

	msg, err := h.Messages.Send(r.Context(), me, other, content)
	if err != nil {
		fail(w, r, err)
		return
	}
	logPublish("message", h.Publisher.PublishMessageSent(msg))

	writeJSON(w, http.StatusCreated, msg)
}
