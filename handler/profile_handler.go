package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	models "my-social/model"
	"my-social/repository"
	"my-social/storage"
)

const maxBioLength = 150

type updateProfileInput struct {
	Nickname     string  `json:"nickname"`
	Bio          string  `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	IsPrivate    *bool   `json:"is_private"`
}

// viewer resolves the signed-in user, preferring the slot mirror and
// falling back to the user table.
func (h *Handler) viewer(ctx context.Context, userID int64) (*models.User, error) {
	user, err := h.LocalUsers.Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return h.Users.GetByID(ctx, userID)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID, err := pathID(r, "userID")
	if err != nil {
		fail(w, r, err)
		return
	}

	viewer, err := h.viewer(r.Context(), me)
	if err != nil {
		fail(w, r, err)
		return
	}

	profile, err := h.Profiles.Load(r.Context(), viewer, targetID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	targetID, err := pathID(r, "userID")
	if err != nil {
		fail(w, r, err)
		return
	}

	status, err := h.Follows.Toggle(r.Context(), me, targetID)
	if err != nil {
		fail(w, r, err)
		return
	}
	logPublish("follow", h.Publisher.PublishFollowToggled(me, status))

	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var in updateProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	nickname := strings.TrimSpace(in.Nickname)
	if nickname == "" {
		fail(w, r, invalid("닉네임을 입력해주세요."))
		return
	}
	if utf8.RuneCountInString(in.Bio) > maxBioLength {
		fail(w, r, invalid("소개는 150자 이하여야 합니다."))
		return
	}

	update := &models.UpdateUserInput{
		Nickname:  &nickname,
		Bio:       &in.Bio,
		IsPrivate: in.IsPrivate,
	}
	if in.ProfileImage != nil && *in.ProfileImage != "" {
		url, err := storage.SaveImage(r.Context(), h.Bucket, me, *in.ProfileImage)
		if err != nil {
			fail(w, r, err)
			return
		}
		update.ProfileImage = &url
	}

	user, err := h.Users.Update(r.Context(), me, update)
	if err != nil {
		fail(w, r, err)
		return
	}

	found, err := h.LocalUsers.UpdateProfile(r.Context(), me, update)
	if err != nil {
		log.Printf("failed to update profile %d in slot store: %v", me, err)
	} else if !found {
		h.mirrorUser(r, *user)
	}

	writeJSON(w, http.StatusOK, user)
}
