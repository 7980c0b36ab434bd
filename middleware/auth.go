package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"my-social/pkg/jwt"
)

// ContextKey type for context keys
type ContextKey string

const (
	UserIDKey   ContextKey = "user_id"
	UsernameKey ContextKey = "username"
)

// Auth authenticates requests with a bearer JWT. Public paths pass through
// without a token, but still carry the caller's identity when one is sent.
type Auth struct {
	jwtManager  *jwt.Manager
	publicPaths map[string]bool
}

// NewAuth creates a new auth middleware with public paths
func NewAuth(jwtManager *jwt.Manager, publicPaths []string) *Auth {
	pathMap := make(map[string]bool)
	for _, p := range publicPaths {
		pathMap[p] = true
	}

	return &Auth{
		jwtManager:  jwtManager,
		publicPaths: pathMap,
	}
}

// AddPublicPaths adds paths that don't require authentication
func (a *Auth) AddPublicPaths(paths ...string) {
	for _, p := range paths {
		a.publicPaths[p] = true
	}
}

func (a *Auth) Handler(next http.Handler) http.Handler {
	return a.require(next, bearerToken)
}

// WebSocket is Handler for upgrade requests. Browsers cannot set headers on
// a websocket handshake, so a token query parameter is accepted as well.
func (a *Auth) WebSocket(next http.Handler) http.Handler {
	return a.require(next, func(r *http.Request) (string, error) {
		if r.Header.Get("Authorization") == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				return token, nil
			}
		}
		return bearerToken(r)
	})
}

func (a *Auth) require(next http.Handler, extract func(*http.Request) (string, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		public := a.publicPaths[r.URL.Path]

		token, err := extract(r)
		if err != nil {
			if public {
				next.ServeHTTP(w, r)
				return
			}
			unauthorized(w, err.Error())
			return
		}

		claims, err := a.jwtManager.Verify(token)
		if err != nil {
			if public {
				next.ServeHTTP(w, r)
				return
			}
			log.Printf("rejected token for %s: %v", r.URL.Path, err)
			unauthorized(w, "invalid token")
			return
		}

		ctx := WithUser(r.Context(), claims.UserID, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the caller's identity when a valid token is sent and
// never rejects the request.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := bearerToken(r); err == nil {
			if claims, err := a.jwtManager.Verify(token); err == nil {
				r = r.WithContext(WithUser(r.Context(), claims.UserID, claims.Username))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("authorization token is not provided")
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("invalid authorization format")
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}

func WithUser(ctx context.Context, userID int64, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
