package domain

import "time"

// VideoLinkID is the fixed key of the single video_link row.
const VideoLinkID = 1

// VideoLink represents the video_link row.
type VideoLink struct {
	Link      string    `json:"link"`
	UpdatedAt time.Time `json:"updated_at"`
}
