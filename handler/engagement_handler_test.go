package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"my-social/events"
	models "my-social/model"
	"my-social/slotstore"
)

func TestSetLikedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedSlot(t, env.store, slotstore.LikesSlot(5), []models.Like{{UserID: 2}})
	token := env.token(t, 1)

	steps := []struct {
		value     bool
		wantCount int
		wantLiked bool
	}{
		{true, 2, true},
		{true, 2, true},
		{false, 1, false},
		{false, 1, false},
	}

	for i, step := range steps {
		rec := env.do(t, http.MethodPost, "/api/posts/5/like", models.ToggleInput{Value: step.value}, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("step %d: status = %d", i, rec.Code)
		}
		info := decode[models.LikeInfo](t, rec)
		if info.Count != step.wantCount || info.IsLiked != step.wantLiked {
			t.Errorf("step %d: info = %+v", i, info)
		}
	}
}

func TestSetLikedPublishesOnlyStateChanges(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 1)

	var published []events.PostLikedEvent
	unsubscribe, err := env.bus.Subscribe(events.PostLiked, func(data []byte) {
		var e events.PostLikedEvent
		if err := json.Unmarshal(data, &e); err == nil {
			published = append(published, e)
		}
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer unsubscribe()

	for _, value := range []bool{true, true, true, false, false} {
		rec := env.do(t, http.MethodPost, "/api/posts/7/like", models.ToggleInput{Value: value}, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if len(published) != 2 {
		t.Fatalf("published %d events, want 2: %+v", len(published), published)
	}
	if !published[0].Liked || published[0].LikeCount != 1 {
		t.Errorf("like event = %+v", published[0])
	}
	if published[1].Liked || published[1].LikeCount != 0 {
		t.Errorf("unlike event = %+v", published[1])
	}
}

func TestSetBookmarked(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 1)

	rec := env.do(t, http.MethodPost, "/api/posts/8/bookmark", models.ToggleInput{Value: true}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if status := decode[models.BookmarkStatus](t, rec); !status.IsBookmarked || status.PostID != 8 {
		t.Errorf("status = %+v", status)
	}

	rec = env.do(t, http.MethodPost, "/api/posts/8/bookmark", models.ToggleInput{Value: false}, token)
	if status := decode[models.BookmarkStatus](t, rec); status.IsBookmarked {
		t.Errorf("status after removal = %+v", status)
	}
}

func TestEngagementRejectsMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts/8/bookmark", "not an object", env.token(t, 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
