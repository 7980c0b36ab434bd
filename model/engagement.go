package models

import (
	"time"
)

// Like is one entry of a likes_<postId> slot.
type Like struct {
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is one entry of a bookmarks_<userId> slot.
type Bookmark struct {
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type LikeInfo struct {
	PostID  int64 `json:"post_id"`
	Count   int   `json:"count"`
	IsLiked bool  `json:"is_liked"`
}

type BookmarkStatus struct {
	PostID       int64 `json:"post_id"`
	IsBookmarked bool  `json:"is_bookmarked"`
}

type ToggleInput struct {
	Value bool `json:"value"`
}
