package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	service interfaces.CartService
	logger  logger.Logger
}

func NewCartHandler(service interfaces.CartService, logger logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

type AddCartItemRequest struct {
	MenuItemID int     `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	Notes      *string `json:"notes,omitempty"`
}

type UpdateCartItemRequest struct {
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes,omitempty"`
}

type CartLineResponse struct {
	ID         int     `json:"id"`
	MenuItemID int     `json:"menu_item_id"`
	ItemName   string  `json:"item_name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
	Notes      *string `json:"notes,omitempty"`
}

type CartResponse struct {
	RestaurantID int                `json:"restaurant_id,omitempty"`
	Items        []CartLineResponse `json:"items"`
	Subtotal     float64            `json:"subtotal"`
}

func newCartLineResponse(l *domain.CartLine) CartLineResponse {
	return CartLineResponse{
		ID:         l.ID,
		MenuItemID: l.MenuItemID,
		ItemName:   l.ItemName,
		UnitPrice:  l.UnitPrice,
		Quantity:   l.Quantity,
		Subtotal:   l.Subtotal(),
		Notes:      l.Notes,
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := CartResponse{
		RestaurantID: cart.RestaurantID,
		Items:        make([]CartLineResponse, 0, len(cart.Lines)),
		Subtotal:     cart.Subtotal,
	}
	for i := range cart.Lines {
		resp.Items = append(resp.Items, newCartLineResponse(&cart.Lines[i]))
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var errors []ValidationError
	if req.MenuItemID < 1 {
		errors = append(errors, ValidationError{Field: "menu_item_id", Message: "menu item id is required"})
	}
	if req.Quantity < 1 || req.Quantity > 50 {
		errors = append(errors, ValidationError{Field: "quantity", Message: "quantity must be between 1 and 50"})
	}
	if len(errors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errors)
		return
	}

	line, err := h.service.AddItem(r.Context(), userFrom(r.Context()).ID, interfaces.AddCartItemCommand{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newCartLineResponse(line))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid cart item id", http.StatusBadRequest, nil)
		return
	}

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if req.Quantity < 1 || req.Quantity > 50 {
		respondError(w, "Validation failed", http.StatusBadRequest, []ValidationError{
			{Field: "quantity", Message: "quantity must be between 1 and 50"},
		})
		return
	}

	line, err := h.service.UpdateItem(r.Context(), userFrom(r.Context()).ID, lineID, interfaces.UpdateCartItemCommand{
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newCartLineResponse(line))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid cart item id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.RemoveItem(r.Context(), userFrom(r.Context()).ID, lineID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), userFrom(r.Context()).ID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
