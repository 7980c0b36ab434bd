package models

import (
	"time"
)

type Follow struct {
	ID          int64     `json:"id"`
	FollowerID  int64     `json:"follower_id"`  // User who is following
	FollowingID int64     `json:"following_id"` // User being followed
	CreatedAt   time.Time `json:"created_at"`
}

type ProfileStats struct {
	PostsCount     int `json:"posts_count"`
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
}

type Profile struct {
	User         UserSummary      `json:"user"`
	IsPrivate    bool             `json:"is_private"`
	Posts        []PostWithImages `json:"posts"`
	Bookmarks    []PostWithImages `json:"bookmarks,omitempty"`
	Stats        ProfileStats     `json:"stats"`
	IsFollowing  bool             `json:"is_following"`
	IsOwnProfile bool             `json:"is_own_profile"`
}

type FollowStatus struct {
	UserID         int64 `json:"user_id"`
	IsFollowing    bool  `json:"is_following"`
	FollowersCount int   `json:"followers_count"`
}
