package handler

import (
	"net/http"
)

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	list, err := h.Notifications.List(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// UnreadNotifications backs the notification badge of the header.
func (h *Handler) UnreadNotifications(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	count, err := h.Notifications.UnreadCount(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	marked, err := h.Notifications.MarkAllAsRead(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"marked": marked})
}
