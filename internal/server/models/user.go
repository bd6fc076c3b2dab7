package models

import "time"

// User is the persisted identity record. PasswordHash never leaves the
// repository/service layer, and RefreshToken holds the single currently
// valid refresh token for this identity ("" when logged out).
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"-"`
	RefreshToken string `json:"-"`

	Avatar        string `json:"avatar,omitempty"`
	AvatarKey     string `json:"-"`
	CoverImage    string `json:"coverImage,omitempty"`
	CoverImageKey string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
