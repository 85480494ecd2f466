package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/nmtri-dev/goflix/internal/types"
)

// UserSummary is the public projection of a user row. Password hashes and
// role internals never leave the repository.
type UserSummary struct {
	ID        uuid.UUID    `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FullName  *string      `json:"full_name,omitempty"`
	RoleName  types.Role   `json:"roleName"`
	Status    types.Status `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type AddFavoriteRequest struct {
	MovieID uuid.UUID `json:"movie_id"`
}
