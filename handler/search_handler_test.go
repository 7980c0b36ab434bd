package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	models "my-social/model"
	"my-social/slotstore"
)

func TestSearchUsersEmptyQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/search/users?q=%20%20", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if users := decode[[]models.UserSummary](t, rec); len(users) != 0 {
		t.Errorf("users = %+v", users)
	}
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta(`ILIKE`)).
		WithArgs("%멍%", searchResultLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname", "profile_image", "bio"}).
			AddRow(int64(4), "dog", "멍멍이", nil, ""))

	rec := env.do(t, http.MethodGet, "/api/search/users?q=%EB%A9%8D", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if users := decode[[]models.UserSummary](t, rec); len(users) != 1 || users[0].ID != 4 {
		t.Errorf("users = %+v", users)
	}
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	env.mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs(suggestedUsersLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname", "profile_image", "bio"}).
			AddRow(int64(1), "a", "A", nil, ""))
	env.mock.ExpectQuery(regexp.QuoteMeta(`FROM posts`)).
		WithArgs(suggestedPostsLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "image_url", "author_nickname", "created_at"}).
			AddRow(int64(3), int64(1), "t", "c", "/media/p.png", "A", now))

	rec := env.do(t, http.MethodGet, "/api/search/suggestions", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	resp := decode[suggestionsResponse](t, rec)
	if len(resp.Users) != 1 || len(resp.Posts) != 1 {
		t.Errorf("suggestions = %+v", resp)
	}
}

func TestRecentSearchesArePerViewer(t *testing.T) {
	env := newTestEnv(t)
	seedSlot(t, env.store, slotstore.SlotUsers, []models.User{
		{ID: 1, Username: "me", Nickname: "나"},
		{ID: 2, Username: "a", Nickname: "에이"},
		{ID: 3, Username: "b", Nickname: "비"},
	})
	mine, theirs := env.token(t, 1), env.token(t, 2)

	for _, id := range []int64{2, 3, 2} {
		rec := env.do(t, http.MethodPost, "/api/search/recent", pushRecentInput{UserID: id}, mine)
		if rec.Code != http.StatusOK {
			t.Fatalf("push %d: status = %d", id, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/search/recent", nil, mine)
	recent := decode[[]models.RecentSearch](t, rec)
	if len(recent) != 2 || recent[0].ID != 2 || recent[1].ID != 3 {
		t.Fatalf("recent = %+v", recent)
	}

	rec = env.do(t, http.MethodGet, "/api/search/recent", nil, theirs)
	if other := decode[[]models.RecentSearch](t, rec); len(other) != 0 {
		t.Errorf("another viewer sees %+v", other)
	}

	rec = env.do(t, http.MethodDelete, "/api/search/recent/2", nil, mine)
	if recent := decode[[]models.RecentSearch](t, rec); len(recent) != 1 || recent[0].ID != 3 {
		t.Errorf("after remove = %+v", recent)
	}

	rec = env.do(t, http.MethodDelete, "/api/search/recent", nil, mine)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/search/recent", nil, mine)
	if recent := decode[[]models.RecentSearch](t, rec); len(recent) != 0 {
		t.Errorf("after clear = %+v", recent)
	}
}

func TestPushRecentSearchRejectsMissingUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/search/recent", pushRecentInput{}, env.token(t, 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
