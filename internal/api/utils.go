package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware" // For RequestID

	"github.com/nmtri-dev/goflix/internal/types"
)

// Response is the envelope every JSON endpoint returns. Pagination and
// message are omitted when they do not apply.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Data       any               `json:"data"`
	Pagination *types.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	// If data is nil and status indicates no content, just write header
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Set headers *before* writing status or body
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
	}
}

// SuccessResponse writes the standard envelope around data.
func SuccessResponse(w http.ResponseWriter, r *http.Request, status int, data any, pagination *types.Pagination, message string) {
	WriteJSONResponse(w, r, status, Response{
		StatusCode: status,
		Data:       data,
		Pagination: pagination,
		Message:    message,
	})
}

// ErrorResponse writes a standard JSON error body. Used for API surfaces only;
// navigable surfaces redirect instead.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, Response{
		StatusCode: status,
		Data:       nil,
		Message:    message,
	})
}

// HandleDomainError maps a sentinel error chain to an HTTP status with a safe
// message. Anything unrecognized is logged by the caller and surfaced as 500.
func HandleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		ErrorResponse(w, r, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, ErrUnauthenticated):
		ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrForbidden):
		ErrorResponse(w, r, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrConflict):
		ErrorResponse(w, r, http.StatusConflict, "Already exists")
	case errors.Is(err, ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, "Not found")
	default:
		ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

// DecodeJSONBody reads and decodes a JSON request body safely.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	// Set a max body size to prevent abuse (e.g., 1MB)
	maxBytes := 1_048_576
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q (wanted %s)", unmarshalTypeError.Field, unmarshalTypeError.Type)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")

		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

		case errors.As(err, &invalidUnmarshalError):
			// This indicates a programming error (passing non-pointer)
			panic(fmt.Errorf("developer error: invalid argument passed to json.Unmarshal: %w", err))

		default:
			return fmt.Errorf("error decoding JSON body: %w", err)
		}
	}

	// Check for trailing data after the first JSON object
	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

// ParsePageParams reads ?page and ?limit with the listing defaults.
func ParsePageParams(r *http.Request) (page, limit, offset int) {
	page = 1
	limit = 10
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit, (page - 1) * limit
}

// LooksLikeEmail is the identifier-shape heuristic used at login: an "@" with
// a domain-like suffix means the identifier is matched against the email
// column, otherwise against the username column.
func LooksLikeEmail(identifier string) bool {
	at := strings.Index(identifier, "@")
	if at <= 0 || at == len(identifier)-1 {
		return false
	}
	domain := identifier[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(identifier, " \t")
}
