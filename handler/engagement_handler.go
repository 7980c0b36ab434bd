package handler

import (
	"net/http"

	models "my-social/model"
)

// SetLiked sets or clears the caller's like on a post.
func (h *Handler) SetLiked(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in models.ToggleInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	info, changed, err := h.Likes.SetLiked(r.Context(), postID, me, in.Value)
	if err != nil {
		fail(w, r, err)
		return
	}
	if changed {
		logPublish("like", h.Publisher.PublishPostLiked(me, info))
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) SetBookmarked(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in models.ToggleInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	status, err := h.Bookmarks.SetBookmarked(r.Context(), me, postID, in.Value)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
