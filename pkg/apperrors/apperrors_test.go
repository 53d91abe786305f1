package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{NotFound("Convoy", "abc"), http.StatusNotFound},
		{InvalidInput("limit must be positive"), http.StatusBadRequest},
		{InvalidID("not-a-uuid", nil), http.StatusBadRequest},
		{Unauthorized("missing token"), http.StatusUnauthorized},
		{RateLimited(30), http.StatusTooManyRequests},
		{Persistence(errors.New("boom")), http.StatusInternalServerError},
		{Internal("panic recovered"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestNotFoundExtensions(t *testing.T) {
	err := NotFound("Drone", "d-123")
	assert.Equal(t, "Entity not found: Drone with id 'd-123'", err.Error())
	assert.Equal(t, "Drone", err.Extensions["entity_type"])
	assert.Equal(t, "d-123", err.Extensions["entity_id"])
}

func TestRateLimitedCarriesRetryHint(t *testing.T) {
	err := RateLimited(30)
	assert.Equal(t, 30, err.Extensions["retry_after_secs"])
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("session down")
	err := Persistence(cause)
	assert.ErrorIs(t, err, cause)
}

func TestFromPassesTaxonomyThrough(t *testing.T) {
	orig := NotFound("Convoy", "c1")
	wrapped := fmt.Errorf("during query: %w", orig)

	got := From(wrapped)
	require.Equal(t, CodeNotFound, got.Code)
	assert.Same(t, orig, got)
}

func TestFromWrapsUnknownAsPersistence(t *testing.T) {
	got := From(errors.New("connection reset"))
	assert.Equal(t, CodePersistence, got.Code)
}
