package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"my-social/middleware"
	natsClient "my-social/nats"
	"my-social/pkg/jwt"
	"my-social/publisher"
	"my-social/repository"
	"my-social/storage"
)

// Dependencies are the repositories and services the HTTP API runs on.
type Dependencies struct {
	Users     repository.UserRepository
	Posts     repository.PostRepository
	Comments  repository.CommentRepository
	PostLikes repository.PostLikeRepository
	Guestbook repository.GuestbookRepository
	Projects  repository.ProjectRepository

	LocalUsers repository.LocalUserRepository
	LocalPosts repository.LocalPostRepository
	Messages   repository.MessageRepository
	Follows    repository.FollowRepository
	Likes      repository.LikeRepository
	Bookmarks  repository.BookmarkRepository
	Searches   repository.SearchRepository
	Profiles   repository.ProfileRepository

	Notifications repository.NotificationRepository

	Bucket       storage.Bucket
	Publisher    *publisher.EventPublisher
	Bus          natsClient.Bus
	JWT          *jwt.Manager
	AccessExpiry time.Duration
}

type Handler struct {
	Dependencies
	upgrader websocket.Upgrader
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		Dependencies: deps,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type RouterOptions struct {
	AllowedOrigins []string
	// Media serves uploaded objects under /media/ when set.
	Media http.Handler
}

var publicPaths = []string{
	"/api/auth/register",
	"/api/auth/login",
}

func (h *Handler) Routes(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: !allowsAnyOrigin(opts.AllowedOrigins),
		MaxAge:           300,
	}))

	auth := middleware.NewAuth(h.JWT, publicPaths)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	if opts.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", opts.Media))
	}

	r.With(auth.WebSocket).Get("/ws/messages", h.StreamMessages)

	r.Route("/api", func(r chi.Router) {
		// Browsing works signed out; the caller is attached when known.
		r.Group(func(r chi.Router) {
			r.Use(auth.Optional)

			r.Get("/feed", h.Feed)
			r.Get("/posts/{postID}", h.GetPost)
			r.Get("/posts/{postID}/comments", h.ListComments)
			r.Get("/posts/{postID}/likes", h.GetPostLikes)
			r.Get("/search/users", h.SearchUsers)
			r.Get("/search/suggestions", h.Suggestions)
			r.Get("/guestbook", h.ListGuestbook)
			r.Post("/guestbook", h.CreateGuestbookEntry)
			r.Get("/projects", h.ListProjects)
			r.Get("/projects/{projectID}", h.GetProject)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Handler)

			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Get("/auth/me", h.Me)

			r.Get("/messages", h.ListConversations)
			r.Get("/messages/unread", h.UnreadCount)
			r.Get("/messages/{userID}", h.GetThread)
			r.Post("/messages/{userID}", h.SendMessage)

			r.Get("/profiles/{userID}", h.GetProfile)
			r.Post("/profiles/{userID}/follow", h.ToggleFollow)
			r.Put("/profile", h.UpdateProfile)

			r.Post("/posts", h.CreatePost)
			r.Delete("/posts/{postID}", h.DeletePost)
			r.Post("/posts/{postID}/comments", h.CreateComment)
			r.Post("/posts/{postID}/likes", h.TogglePostLike)
			r.Post("/posts/{postID}/like", h.SetLiked)
			r.Post("/posts/{postID}/bookmark", h.SetBookmarked)

			r.Get("/notifications", h.ListNotifications)
			r.Get("/notifications/unread", h.UnreadNotifications)
			r.Post("/notifications/read", h.MarkNotificationsRead)

			r.Get("/search/recent", h.RecentSearches)
			r.Post("/search/recent", h.PushRecentSearch)
			r.Delete("/search/recent", h.ClearRecentSearches)
			r.Delete("/search/recent/{userID}", h.RemoveRecentSearch)
		})
	})

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return len(origins) == 0
}
