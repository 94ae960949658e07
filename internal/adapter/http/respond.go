package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/foodease/foodease/internal/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	})
}

// respondDomainError maps domain sentinel errors to HTTP status codes.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, "Not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, err.Error(), http.StatusUnauthorized, nil)
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrAccountDisabled):
		respondError(w, err.Error(), http.StatusForbidden, nil)
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrOrderNotAssignable),
		errors.Is(err, domain.ErrAlreadyAssigned),
		errors.Is(err, domain.ErrDriverUnavailable),
		errors.Is(err, domain.ErrAlreadyReviewed):
		respondError(w, err.Error(), http.StatusConflict, nil)
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrRestaurantMismatch),
		errors.Is(err, domain.ErrItemUnavailable),
		errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, err.Error(), http.StatusBadRequest, nil)
	case strings.HasPrefix(err.Error(), "validation failed"):
		respondError(w, err.Error(), http.StatusBadRequest, nil)
	default:
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}
