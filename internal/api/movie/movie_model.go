package movie

import (
	"github.com/google/uuid"

	"github.com/nmtri-dev/goflix/internal/types"
)

// CreateMovieRequest represents the expected JSON body for creating a movie.
type CreateMovieRequest struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	ShortDescription *string    `json:"short_description,omitempty"`
	Description      *string    `json:"description,omitempty"`
	ReleaseYear      *int       `json:"release_year,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	Type             string     `json:"type"`
	ImageID          *uuid.UUID `json:"image_id,omitempty"`
	Status           *int       `json:"status,omitempty"`
}

// UpdateMovieRequest represents the expected JSON body for updating a movie.
type UpdateMovieRequest struct {
	Title            *string    `json:"title,omitempty"`
	Slug             *string    `json:"slug,omitempty"`
	ShortDescription *string    `json:"short_description,omitempty"`
	Description      *string    `json:"description,omitempty"`
	ReleaseYear      *int       `json:"release_year,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	Type             *string    `json:"type,omitempty"`
	ImageID          *uuid.UUID `json:"image_id,omitempty"`
}

// UpdateStatusRequest is the body of the per-movie status change.
type UpdateStatusRequest struct {
	Status int `json:"status"`
}

// MovieDetail is a movie together with its episodes, as served by the
// detail endpoint.
type MovieDetail struct {
	types.Movie
	Episodes []types.Episode `json:"episodes"`
}
