package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmtri-dev/goflix/internal/types"
)

func TestLooksLikeEmail(t *testing.T) {
	cases := []struct {
		identifier string
		want       bool
	}{
		{"alice@example.com", true},
		{"a@b.co", true},
		{"first.last@sub.domain.org", true},
		{"alice", false},
		{"@example.com", false},
		{"alice@", false},
		{"alice@example", false},
		{"alice@example.", false},
		{"ali ce@example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LooksLikeEmail(tc.identifier), "identifier %q", tc.identifier)
	}
}

func TestParsePageParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/movies?page=3&limit=20", nil)
	page, limit, offset := ParsePageParams(req)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	// Defaults kick in for absent or nonsense values.
	req = httptest.NewRequest(http.MethodGet, "/api/movies?page=-1&limit=abc", nil)
	page, limit, offset = ParsePageParams(req)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)
}

func TestSuccessResponse_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	rec := httptest.NewRecorder()

	pagination := types.NewPagination(42, 2, 10)
	SuccessResponse(rec, req, http.StatusOK, []string{"a", "b"}, &pagination, "ok")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.StatusCode)
	assert.Equal(t, "ok", envelope.Message)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, int64(42), envelope.Pagination.TotalItems)
	assert.Equal(t, 5, envelope.Pagination.TotalPages)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	require.NoError(t, DecodeJSONBody(rec, req, &p))
	assert.Equal(t, "x", p.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	require.Error(t, DecodeJSONBody(rec, req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	require.Error(t, DecodeJSONBody(rec, req, &p))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}{"name":"y"}`))
	require.Error(t, DecodeJSONBody(rec, req, &p))
}

func TestHandleDomainError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrBadRequest, http.StatusBadRequest},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		HandleDomainError(rec, req, tc.err)
		assert.Equal(t, tc.want, rec.Code)
	}
}
