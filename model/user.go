package models

import (
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Nickname     string    `json:"nickname" db:"nickname"`
	ProfileImage *string   `json:"profile_image" db:"profile_image"`
	Bio          string    `json:"bio" db:"bio"`
	IsPrivate    bool      `json:"is_private" db:"is_private"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the public projection of a user joined onto posts,
// conversations and recent searches.
type UserSummary struct {
	ID           int64   `json:"id" db:"id"`
	Username     string  `json:"username" db:"username"`
	Nickname     string  `json:"nickname" db:"nickname"`
	ProfileImage *string `json:"profile_image" db:"profile_image"`
	Bio          string  `json:"bio" db:"bio"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		Nickname:     u.Nickname,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
	}
}

type UpdateUserInput struct {
	Nickname     *string `json:"nickname,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
	IsPrivate    *bool   `json:"is_private,omitempty"`
}

type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Nickname        string `json:"nickname"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int32  `json:"expires_in"`
	User        User   `json:"user"`
}
