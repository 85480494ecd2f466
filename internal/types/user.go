package types

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Adding a role means adding a
// constant here and handling it in the gate, not scattering string literals.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// User represents the core account entity.
type User struct {
	ID        uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"` // Unique identifier (UUID).
	Username  string    `json:"username" example:"johndoe"`                        // Unique username.
	Email     string    `json:"email" example:"john.doe@example.com"`              // Unique email address used for login.
	Password  string    `json:"-"`                                                 // Hashed password (never exposed).
	FullName  *string   `json:"full_name,omitempty"`                               // Optional display name.
	RoleID    uuid.UUID `json:"role_id"`                                           // Reference to exactly one role.
	RoleName  Role      `json:"role_name,omitempty" example:"user"`                // Resolved role name (joined).
	Status    Status    `json:"status"`                                            // Soft-delete flag.
	CreatedAt time.Time `json:"created_at"`                                        // Timestamp when the account was created.
	UpdatedAt time.Time `json:"updated_at"`                                        // Timestamp when the account was last updated.
}
