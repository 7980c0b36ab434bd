package handler

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	models "my-social/model"
	"my-social/slotstore"
)

var userColumns = []string{"id", "username", "password_hash", "nickname", "profile_image", "bio", "is_private", "created_at"}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		input models.RegisterInput
		want  string
	}{
		{"short username", models.RegisterInput{Username: "abc", Password: "secret1", PasswordConfirm: "secret1", Nickname: "멍멍"}, "아이디는 4자 이상이어야 합니다."},
		{"short password", models.RegisterInput{Username: "puppy", Password: "12345", PasswordConfirm: "12345", Nickname: "멍멍"}, "비밀번호는 6자 이상이어야 합니다."},
		{"mismatch", models.RegisterInput{Username: "puppy", Password: "secret1", PasswordConfirm: "secret2", Nickname: "멍멍"}, "비밀번호가 일치하지 않습니다."},
		{"short nickname", models.RegisterInput{Username: "puppy", Password: "secret1", PasswordConfirm: "secret1", Nickname: " 멍 "}, "닉네임은 2자 이상이어야 합니다."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPost, "/api/auth/register", tt.input, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := errorMessage(t, rec); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterCreatesUserAndMirrorsSlot(t *testing.T) {
	env := newTestEnv(t)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	env.mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`)).
		WithArgs("puppy").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	env.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("puppy", sqlmock.AnyArg(), "멍멍이", nil, "", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	rec := env.do(t, http.MethodPost, "/api/auth/register", models.RegisterInput{
		Username: "puppy", Password: "secret1", PasswordConfirm: "secret1", Nickname: "멍멍이",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	resp := decode[models.AuthResponse](t, rec)
	if resp.User.ID != 7 || resp.AccessToken == "" || resp.ExpiresIn != 3600 {
		t.Errorf("response = %+v", resp)
	}
	claims, err := env.jwt.Verify(resp.AccessToken)
	if err != nil || claims.UserID != 7 {
		t.Errorf("token claims = %+v, %v", claims, err)
	}

	users, err := slotstore.Read[models.User](context.Background(), env.store, slotstore.SlotUsers)
	if err != nil {
		t.Fatalf("read users slot: %v", err)
	}
	if len(users) != 1 || users[0].ID != 7 || users[0].Nickname != "멍멍이" {
		t.Errorf("users slot = %+v", users)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("puppy").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := env.do(t, http.MethodPost, "/api/auth/register", models.RegisterInput{
		Username: "puppy", Password: "secret1", PasswordConfirm: "secret1", Nickname: "멍멍이",
	}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != "이미 사용 중인 아이디입니다." {
		t.Errorf("error = %q", got)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	tests := []struct {
		name     string
		password string
		found    bool
		want     int
	}{
		{"success", "secret1", true, http.StatusOK},
		{"wrong password", "nope123", true, http.StatusUnauthorized},
		{"unknown user", "secret1", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rows := sqlmock.NewRows(userColumns)
			if tt.found {
				rows.AddRow(int64(3), "puppy", string(hash), "멍멍이", nil, "", false, time.Now())
			}
			env.mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
				WithArgs("puppy").
				WillReturnRows(rows)

			rec := env.do(t, http.MethodPost, "/api/auth/login", models.LoginInput{Username: "puppy", Password: tt.password}, "")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				if got := errorMessage(t, rec); got != msgLoginFailed {
					t.Errorf("error = %q", got)
				}
			}
		})
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(3), "puppy", "hash", "멍멍이", nil, "", false, time.Now()))

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, env.token(t, 3))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); regexp.MustCompile(`hash`).MatchString(body) {
		t.Errorf("password hash leaked: %s", body)
	}
}
