package chapter

import "github.com/google/uuid"

// CreateChapterRequest represents the expected JSON body for creating a chapter.
type CreateChapterRequest struct {
	MovieID       uuid.UUID `json:"movie_id"`
	ChapterNumber int       `json:"chapter_number"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description,omitempty"`
}

type UpdateStatusRequest struct {
	Status int `json:"status"`
}

// ListFilter narrows GET /api/chapters.
type ListFilter struct {
	MovieID *uuid.UUID
	Search  string
	Page    int
	Limit   int
}
