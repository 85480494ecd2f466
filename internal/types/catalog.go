package types

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a top-level catalog entry, either a standalone film or a series
// that owns chapters and episodes.
type Movie struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	ShortDescription *string    `json:"short_description,omitempty"`
	Description      *string    `json:"description,omitempty"`
	ReleaseYear      *int       `json:"release_year,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	Type             string     `json:"type"` // "movie" or "series"
	ImageID          *uuid.UUID `json:"image_id,omitempty"`
	Status           Status     `json:"status"`
	ViewCount        int64      `json:"view_count"`
	UniqueViewers    int64      `json:"unique_viewers"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Chapter struct {
	ID            uuid.UUID `json:"id"`
	MovieID       uuid.UUID `json:"movie_id"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	MovieTitle    string    `json:"movie_title,omitempty"` // joined from movies
}

type Episode struct {
	ID               uuid.UUID  `json:"id"`
	MovieID          uuid.UUID  `json:"movie_id"`
	ChapterID        *uuid.UUID `json:"chapter_id,omitempty"`
	EpisodeNumber    int        `json:"episode_number"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	ShortDescription *string    `json:"short_description,omitempty"`
	Description      *string    `json:"description,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	ImageID          *uuid.UUID `json:"image_id,omitempty"`
	Status           Status     `json:"status"`
	ViewCount        int64      `json:"view_count"`
	UniqueViewers    int64      `json:"unique_viewers"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	MovieTitle       string     `json:"movie_title,omitempty"`   // joined
	ChapterTitle     *string    `json:"chapter_title,omitempty"` // joined
	ImageURL         *string    `json:"image_url,omitempty"`     // joined
}

// VideoLink is one playable source for an episode, ordered by LinkOrder.
type VideoLink struct {
	ID        uuid.UUID `json:"id"`
	MovieID   uuid.UUID `json:"movie_id"`
	EpisodeID uuid.UUID `json:"episode_id"`
	LinkOrder int       `json:"link_order"`
	Link      string    `json:"link"`
	Status    Status    `json:"status"`
}

type Image struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	UserID    uuid.UUID `json:"user_id"`
	MovieID   uuid.UUID `json:"movie_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteMovie is a movie row decorated with when the user favorited it.
type FavoriteMovie struct {
	Movie
	FavoritedAt time.Time `json:"favorited_at"`
}

// Comment is viewer feedback on a movie, newest first in listings. Username
// and FullName are joined from users for display.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	MovieID   uuid.UUID `json:"movie_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username,omitempty"`  // joined
	FullName  *string   `json:"full_name,omitempty"` // joined
}

// SelectOption feeds the CMS dropdowns (id + label only).
type SelectOption struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
