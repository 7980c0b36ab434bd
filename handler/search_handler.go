package handler

import (
	"net/http"
	"strings"

	models "my-social/model"
)

const (
	suggestedUsersLimit = 10
	suggestedPostsLimit = 9
)

type suggestionsResponse struct {
	Users []models.UserSummary `json:"users"`
	Posts []models.Post        `json:"posts"`
}

type pushRecentInput struct {
	UserID int64 `json:"user_id"`
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []models.UserSummary{})
		return
	}

	users, err := h.Users.Search(r.Context(), query, searchResultLimit)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Suggestions is the explore view shown before anything is typed.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListRecent(r.Context(), suggestedUsersLimit)
	if err != nil {
		fail(w, r, err)
		return
	}
	posts, err := h.Posts.ListRecent(r.Context(), suggestedPostsLimit)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Users: users, Posts: posts})
}

func (h *Handler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	recent, err := h.Searches.Recent(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

func (h *Handler) PushRecentSearch(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var in pushRecentInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if in.UserID <= 0 {
		fail(w, r, invalid(msgBadRequest))
		return
	}

	user, err := h.viewer(r.Context(), in.UserID)
	if err != nil {
		fail(w, r, err)
		return
	}

	recent, err := h.Searches.Push(r.Context(), me, user.Summary())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

func (h *Handler) RemoveRecentSearch(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		fail(w, r, err)
		return
	}

	recent, err := h.Searches.Remove(r.Context(), me, userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recent)
}

func (h *Handler) ClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Searches.Clear(r.Context(), me); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
