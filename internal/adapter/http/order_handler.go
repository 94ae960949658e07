package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type PlaceOrderRequest struct {
	AddressID           int     `json:"address_id"`
	PaymentMethod       string  `json:"payment_method"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
	CouponCode          string  `json:"coupon_code,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

type OrderItemResponse struct {
	MenuItemID int     `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID                  int                 `json:"id"`
	Number              string              `json:"number"`
	Status              string              `json:"status"`
	PaymentMethod       string              `json:"payment_method"`
	PaymentStatus       string              `json:"payment_status"`
	RestaurantName      string              `json:"restaurant_name,omitempty"`
	AddressText         string              `json:"address,omitempty"`
	Subtotal            float64             `json:"subtotal"`
	DeliveryFee         float64             `json:"delivery_fee"`
	Tax                 float64             `json:"tax"`
	Discount            float64             `json:"discount,omitempty"`
	Total               float64             `json:"total"`
	SpecialInstructions *string             `json:"special_instructions,omitempty"`
	Items               []OrderItemResponse `json:"items,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	EstimatedDeliveryAt *time.Time          `json:"estimated_delivery_at,omitempty"`
	DeliveredAt         *time.Time          `json:"delivered_at,omitempty"`
}

type StatusLogResponse struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
	Notes     *string   `json:"notes,omitempty"`
}

func newOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                  o.ID,
		Number:              o.Number,
		Status:              string(o.Status),
		PaymentMethod:       string(o.PaymentMethod),
		PaymentStatus:       string(o.PaymentStatus),
		RestaurantName:      o.RestaurantName,
		AddressText:         o.AddressText,
		Subtotal:            o.Subtotal,
		DeliveryFee:         o.DeliveryFee,
		Tax:                 o.Tax,
		Discount:            o.Discount,
		Total:               o.Total,
		SpecialInstructions: o.SpecialInstructions,
		CreatedAt:           o.CreatedAt,
		EstimatedDeliveryAt: o.EstimatedDeliveryAt,
		DeliveredAt:         o.DeliveredAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal,
		})
	}
	return resp
}

func newOrderListResponse(orders []*domain.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}
	return resp
}

func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var errors []ValidationError
	if req.AddressID < 1 {
		errors = append(errors, ValidationError{Field: "address_id", Message: "address id is required"})
	}
	if req.PaymentMethod != "cash" && req.PaymentMethod != "card" {
		errors = append(errors, ValidationError{Field: "payment_method", Message: "payment method must be one of: cash, card"})
	}
	if len(errors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errors)
		return
	}

	order, err := h.service.Place(r.Context(), userFrom(r.Context()).ID, interfaces.PlaceOrderCommand{
		AddressID:           req.AddressID,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
		CouponCode:          req.CouponCode,
	})
	if err != nil {
		h.logger.Error("order_placement_failed", "Failed to place order", requestIDFrom(r.Context()), nil, err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newOrderResponse(order))
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListMine(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderListResponse(orders))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]StatusLogResponse, 0, len(history))
	for _, entry := range history {
		resp = append(resp, StatusLogResponse{
			Status:    string(entry.Status),
			ChangedBy: entry.ChangedBy,
			ChangedAt: entry.ChangedAt,
			Notes:     entry.Notes,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), userFrom(r.Context()), orderID, req.Status, req.Reason)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newOrderResponse(order))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.Delete(r.Context(), orderID); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
