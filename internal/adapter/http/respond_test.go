package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodease/foodease/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrAccountDisabled, http.StatusForbidden},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrAlreadyAssigned, http.StatusConflict},
		{domain.ErrDriverUnavailable, http.StatusConflict},
		{domain.ErrAlreadyReviewed, http.StatusConflict},
		// Cart and status problems are bad requests, not conflicts.
		{domain.ErrCartEmpty, http.StatusBadRequest},
		{domain.ErrRestaurantMismatch, http.StatusBadRequest},
		{domain.ErrItemUnavailable, http.StatusBadRequest},
		{domain.ErrInvalidStatus, http.StatusBadRequest},
		{fmt.Errorf("validation failed: street must be 5-200 characters"), http.StatusBadRequest},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondDomainError(rec, tc.err)

			assert.Equal(t, tc.code, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRespondDomainErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respondDomainError(rec, errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Error)
}
