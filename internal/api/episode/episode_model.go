package episode

import "github.com/google/uuid"

// CreateEpisodeRequest represents the expected JSON body for creating an
// episode together with its playable video links.
type CreateEpisodeRequest struct {
	MovieID          uuid.UUID  `json:"movie_id"`
	ChapterID        *uuid.UUID `json:"chapter_id,omitempty"`
	EpisodeNumber    int        `json:"episode_number"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	ShortDescription *string    `json:"short_description,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	ImageID          *uuid.UUID `json:"image_id,omitempty"`
	VideoLinks       []string   `json:"video_links"`
}

type UpdateStatusRequest struct {
	Status int `json:"status"`
}

// ListFilter narrows GET /api/episodes.
type ListFilter struct {
	MovieID   *uuid.UUID
	ChapterID *uuid.UUID
	Status    *int
	Search    string
	Page      int
	Limit     int
}
