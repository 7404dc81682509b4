package domain

import "time"

type GalleryEntry struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
	ImageLink   []string   `json:"image_link"`
}
