package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"
)

type AuthHandler struct {
	service interfaces.AuthService
	logger  logger.Logger
}

func NewAuthHandler(service interfaces.AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if validationErrors := validateRegisterRequest(req); len(validationErrors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, validationErrors)
		return
	}

	user, err := h.service.Register(r.Context(), interfaces.RegisterCommand{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Password:     req.Password,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		VehicleType:  strings.TrimSpace(req.VehicleType),
		VehiclePlate: strings.TrimSpace(req.VehiclePlate),
	})
	if err != nil {
		h.logger.Error("registration_failed", "Failed to register user", requestIDFrom(r.Context()), nil, err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	result, err := h.service.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Token: result.Token,
		User:  newUserResponse(result.User),
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if user == nil {
		respondError(w, "Missing bearer token", http.StatusUnauthorized, nil)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(user))
}

func validateRegisterRequest(req RegisterRequest) []ValidationError {
	var errors []ValidationError

	name := strings.TrimSpace(req.Name)
	if len(name) < 1 {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	} else if len(name) > 100 {
		errors = append(errors, ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
	}

	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	}

	if len(req.Password) < 8 {
		errors = append(errors, ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}

	validRoles := map[string]bool{
		"customer":         true,
		"restaurant_owner": true,
		"driver":           true,
	}
	if !validRoles[req.Role] {
		errors = append(errors, ValidationError{Field: "role", Message: "role must be one of: customer, restaurant_owner, driver"})
	}

	if req.Role == "driver" {
		if strings.TrimSpace(req.VehicleType) == "" {
			errors = append(errors, ValidationError{Field: "vehicle_type", Message: "vehicle type is required for drivers"})
		}
		if strings.TrimSpace(req.VehiclePlate) == "" {
			errors = append(errors, ValidationError{Field: "vehicle_plate", Message: "vehicle plate is required for drivers"})
		}
	}

	return errors
}
