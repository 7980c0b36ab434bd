package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	models "my-social/model"
	natsClient "my-social/nats"
	"my-social/pkg/jwt"
	"my-social/publisher"
	"my-social/repository"
	"my-social/slotstore"
	"my-social/storage"
	"my-social/subscriber"
)

type sequentialIDs struct{ next int64 }

func (s *sequentialIDs) NextID() int64 {
	s.next++
	return s.next
}

// missingPosts keeps the notification subscriber off the mocked database.
type missingPosts struct{}

func (missingPosts) GetByID(ctx context.Context, postID int64) (*models.PostWithCounts, error) {
	return nil, repository.ErrNotFound
}

type testEnv struct {
	router     http.Handler
	store      slotstore.Store
	mock       sqlmock.Sqlmock
	bus        *natsClient.LocalBus
	jwt        *jwt.Manager
	bucketRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		mockDB.Close()
	})
	db := sqlx.NewDb(mockDB, "postgres")

	store := slotstore.NewMemoryStore()
	slots := slotstore.New(store, &sequentialIDs{next: 1000})

	bucketRoot := t.TempDir()
	bucket, err := storage.NewDiskBucket(bucketRoot, "/media")
	if err != nil {
		t.Fatalf("NewDiskBucket() error = %v", err)
	}

	bus := natsClient.NewLocalBus()
	manager := jwt.NewManager("test-secret")

	localUsers := repository.NewLocalUserRepository(slots)
	localPosts := repository.NewLocalPostRepository(slots)
	bookmarks := repository.NewBookmarkRepository(slots, localPosts)
	follows := repository.NewFollowRepository(slots)
	notifications := repository.NewNotificationRepository(slots)

	sub := subscriber.NewNotificationSubscriber(context.Background(), bus, notifications, missingPosts{}, localUsers)
	if err := sub.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(sub.Stop)

	h := NewHandler(Dependencies{
		Users:         repository.NewUserRepository(db),
		Posts:         repository.NewPostRepository(db),
		Comments:      repository.NewCommentRepository(db),
		PostLikes:     repository.NewPostLikeRepository(db),
		Guestbook:     repository.NewGuestbookRepository(db),
		Projects:      repository.NewProjectRepository(db),
		LocalUsers:    localUsers,
		LocalPosts:    localPosts,
		Messages:      repository.NewMessageRepository(slots),
		Follows:       follows,
		Likes:         repository.NewLikeRepository(slots),
		Bookmarks:     bookmarks,
		Searches:      repository.NewSearchRepository(slots),
		Profiles:      repository.NewProfileRepository(localUsers, localPosts, follows, bookmarks),
		Notifications: notifications,
		Bucket:        bucket,
		Publisher:     publisher.NewEventPublisher(bus),
		Bus:           bus,
		JWT:           manager,
		AccessExpiry:  time.Hour,
	})

	return &testEnv{
		router:     h.Routes(RouterOptions{AllowedOrigins: []string{"*"}, Media: bucket.Handler()}),
		store:      store,
		mock:       mock,
		bus:        bus,
		jwt:        manager,
		bucketRoot: bucketRoot,
	}
}

func seedSlot[T any](t *testing.T, store slotstore.Store, slot string, records []T) {
	t.Helper()
	if err := slotstore.Write(context.Background(), store, slot, records); err != nil {
		t.Fatalf("seed %s: %v", slot, err)
	}
}

func (e *testEnv) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := e.jwt.Generate(userID, "user", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorResponse](t, rec).Error
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/messages", "/api/auth/me", "/api/search/recent", "/api/profiles/1"} {
		rec := env.do(t, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestQueryTokenOnlyOpensWebSocket(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/messages?token="+env.token(t, 1), nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPathIDValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/messages/abc", nil, env.token(t, 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != msgBadRequest {
		t.Errorf("error = %q", got)
	}
}
