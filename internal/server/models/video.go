package models

import "time"

type Video struct {
	ID          string `json:"id"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Thumbnail    string `json:"thumbnail"`
	ThumbnailKey string `json:"-"`
	VideoFile    string `json:"videoFile"`
	VideoFileKey string `json:"-"`

	Duration    float64 `json:"duration"`
	Views       int64   `json:"views"`
	IsPublished bool    `json:"isPublished"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
