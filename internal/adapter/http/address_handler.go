package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/go-chi/chi/v5"
)

type AddressHandler struct {
	service interfaces.AddressService
	logger  logger.Logger
}

func NewAddressHandler(service interfaces.AddressService, logger logger.Logger) *AddressHandler {
	return &AddressHandler{
		service: service,
		logger:  logger,
	}
}

type AddressRequest struct {
	Label     string  `json:"label"`
	Street    string  `json:"street"`
	City      string  `json:"city"`
	Notes     *string `json:"notes,omitempty"`
	IsDefault bool    `json:"is_default"`
}

type AddressResponse struct {
	ID        int     `json:"id"`
	Label     string  `json:"label"`
	Street    string  `json:"street"`
	City      string  `json:"city"`
	Notes     *string `json:"notes,omitempty"`
	IsDefault bool    `json:"is_default"`
}

func newAddressResponse(a *domain.Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Label:     a.Label,
		Street:    a.Street,
		City:      a.City,
		Notes:     a.Notes,
		IsDefault: a.IsDefault,
	}
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAddressRequest(w, r)
	if !ok {
		return
	}

	address, err := h.service.Create(r.Context(), userFrom(r.Context()).ID, req.toCommand())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newAddressResponse(address))
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.service.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		resp = append(resp, newAddressResponse(a))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	addressID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid address id", http.StatusBadRequest, nil)
		return
	}

	req, ok := decodeAddressRequest(w, r)
	if !ok {
		return
	}

	address, err := h.service.Update(r.Context(), userFrom(r.Context()).ID, addressID, req.toCommand())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newAddressResponse(address))
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	addressID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid address id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.Delete(r.Context(), userFrom(r.Context()).ID, addressID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (req AddressRequest) toCommand() interfaces.AddressCommand {
	return interfaces.AddressCommand{
		Label:     strings.TrimSpace(req.Label),
		Street:    strings.TrimSpace(req.Street),
		City:      strings.TrimSpace(req.City),
		Notes:     req.Notes,
		IsDefault: req.IsDefault,
	}
}

func decodeAddressRequest(w http.ResponseWriter, r *http.Request) (AddressRequest, bool) {
	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return req, false
	}

	var errors []ValidationError
	if strings.TrimSpace(req.Street) == "" {
		errors = append(errors, ValidationError{Field: "street", Message: "street is required"})
	}
	if strings.TrimSpace(req.City) == "" {
		errors = append(errors, ValidationError{Field: "city", Message: "city is required"})
	}
	if len(errors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errors)
		return req, false
	}

	return req, true
}
