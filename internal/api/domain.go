package api

import "errors"

// Sentinel errors shared by every feature package. Repositories and services
// wrap these with fmt.Errorf("...: %w", ...) so handlers can map them to HTTP
// statuses with errors.Is while logs keep the full chain.
var (
	// ErrBadRequest signals missing or malformed input.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthenticated covers failed logins and missing/invalid tokens.
	// Login failures are intentionally undifferentiated: unknown identifier
	// and wrong password produce the same error.
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	// ErrForbidden means a valid token with an insufficient role.
	ErrForbidden = errors.New("action forbidden")
	// ErrConflict signals duplicate usernames, emails, slugs or numbers.
	ErrConflict = errors.New("item already exists or conflict")
	// ErrNotFound signals a resource that does not (or no longer does) exist.
	ErrNotFound = errors.New("requested item not found")
	// ErrInternal is the generic, non-leaking wrapper for database and other
	// unexpected failures.
	ErrInternal = errors.New("internal server error")
)
