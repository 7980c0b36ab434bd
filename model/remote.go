package models

import (
	"time"

	"github.com/lib/pq"
)

type Comment struct {
	ID             int64     `json:"id" db:"id"`
	PostID         int64     `json:"post_id" db:"post_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Content        string    `json:"content" db:"content"`
	AuthorNickname string    `json:"author_nickname" db:"author_nickname"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type CreateCommentInput struct {
	Content string `json:"content"`
}

type PostLike struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type GuestbookEntry struct {
	ID         int64     `json:"id" db:"id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Job        string    `json:"job" db:"job"`
	Content    string    `json:"content" db:"content"`
	Rating     int       `json:"rating" db:"rating"`
	Contact    string    `json:"contact" db:"contact"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "진행"
	ProjectInReview   ProjectStatus = "검토"
	ProjectDone       ProjectStatus = "완료"
	ProjectAll        ProjectStatus = "전체"
)

type Project struct {
	ID              int64          `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	Status          ProjectStatus  `json:"status" db:"status"`
	Progress        int            `json:"progress" db:"progress"`
	Role            *string        `json:"role" db:"role"`
	StartDate       *time.Time     `json:"start_date" db:"start_date"`
	ExpectedEndDate *time.Time     `json:"expected_end_date" db:"expected_end_date"`
	Members         pq.StringArray `json:"members" db:"members"`
	DetailURL       *string        `json:"detail_url" db:"detail_url"`
	ThumbnailURL    string         `json:"thumbnail_url" db:"-"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// ProjectView adds the display labels of a project card.
type ProjectView struct {
	Project
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
}
