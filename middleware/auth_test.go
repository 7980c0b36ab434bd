package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"my-social/pkg/jwt"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(strconv.FormatInt(id, 10)))
	})
}

func TestAuthHandler(t *testing.T) {
	manager := jwt.NewManager("secret")
	token, _ := manager.Generate(7, "puppy", time.Hour)

	auth := NewAuth(manager, []string{"/api/auth/login"})
	h := auth.Handler(echoUser())

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing token", "/api/messages", "", http.StatusUnauthorized, ""},
		{"bad format", "/api/messages", "Token abc", http.StatusUnauthorized, ""},
		{"invalid token", "/api/messages", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "/api/messages", "Bearer " + token, http.StatusOK, "7"},
		{"query token ignored", "/api/messages?token=" + token, "", http.StatusUnauthorized, ""},
		{"public anonymous", "/api/auth/login", "", http.StatusOK, "anonymous"},
		{"public bad token", "/api/auth/login", "Bearer nope", http.StatusOK, "anonymous"},
		{"public with token", "/api/auth/login", "Bearer " + token, http.StatusOK, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestWebSocketAuth(t *testing.T) {
	manager := jwt.NewManager("secret")
	token, _ := manager.Generate(7, "puppy", time.Hour)
	h := NewAuth(manager, nil).WebSocket(echoUser())

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{"query token", "/ws/messages?token=" + token, "", http.StatusOK},
		{"header token", "/ws/messages", "Bearer " + token, http.StatusOK},
		{"bad query token", "/ws/messages?token=nope", "", http.StatusUnauthorized},
		{"no token", "/ws/messages", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAddPublicPaths(t *testing.T) {
	auth := NewAuth(jwt.NewManager("secret"), nil)
	auth.AddPublicPaths("/healthz")

	rec := httptest.NewRecorder()
	auth.Handler(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestOptional(t *testing.T) {
	manager := jwt.NewManager("secret")
	token, _ := manager.Generate(3, "a", time.Hour)
	h := NewAuth(manager, nil).Optional(echoUser())

	for header, want := range map[string]string{
		"":                "anonymous",
		"Bearer broken":   "anonymous",
		"Bearer " + token: "3",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("header %q: %d %q, want %q", header, rec.Code, rec.Body.String(), want)
		}
	}
}
