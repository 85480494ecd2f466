package auth

// LoginRequest represents the expected JSON body for user login.
// The username field accepts either a username or an email address.
type LoginRequest struct {
	Username string `json:"username" example:"johndoe"`
	Password string `json:"password" example:"password123"`
}

// LoginResponse represents the successful JSON response after login. The
// session token itself travels only in the Set-Cookie header.
type LoginResponse struct {
	Message string `json:"message" example:"Login successful"`
	User    any    `json:"user"`
}

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username" example:"johndoe"` // Must be unique.
	Email    string `json:"email" example:"john.doe@example.com"`
	Password string `json:"password" example:"Str0ngP@ss!"`
	FullName string `json:"full_name,omitempty" example:"John Doe"`
}

// MeResponse wraps the current-account projection.
type MeResponse struct {
	User any `json:"user"`
}
