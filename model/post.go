package models

import (
	"time"
)

type Post struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	ImageURL       *string   `json:"image_url" db:"image_url"`
	AuthorNickname string    `json:"author_nickname" db:"author_nickname"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type PostImage struct {
	ImageURL string `json:"image_url"`
}

// PostWithCounts is a post row with the aggregate comment and like counts
// the board list shows.
type PostWithCounts struct {
	Post
	CommentsCount int32 `json:"comments_count" db:"comments_count"`
	LikesCount    int32 `json:"likes_count" db:"likes_count"`
}

type PostWithImages struct {
	Post
	Images []PostImage `json:"images"`
}

// FeedPost is a post joined with its author and the viewer's engagement.
type FeedPost struct {
	Post
	User         UserSummary `json:"user"`
	Images       []PostImage `json:"images"`
	LikeCount    int         `json:"like_count"`
	CommentCount int         `json:"comment_count"`
	IsLiked      bool        `json:"is_liked"`
	IsBookmarked bool        `json:"is_bookmarked"`
}

type CreatePostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

type PageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

type PostConnection struct {
	Posts    []PostWithCounts `json:"posts"`
	PageInfo PageInfo         `json:"page_info"`
}
