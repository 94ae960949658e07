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

type DeliveryHandler struct {
	service interfaces.DeliveryService
	logger  logger.Logger
}

func NewDeliveryHandler(service interfaces.DeliveryService, logger logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		service: service,
		logger:  logger,
	}
}

type DeliveryStatusRequest struct {
	Status    string   `json:"status"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

type AssignmentResponse struct {
	ID             int        `json:"id"`
	OrderID        int        `json:"order_id"`
	OrderNumber    string     `json:"order_number,omitempty"`
	Status         string     `json:"status"`
	DeliveryFee    float64    `json:"delivery_fee"`
	DriverEarnings float64    `json:"driver_earnings"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	AssignedAt     time.Time  `json:"assigned_at"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

type DriverStatsResponse struct {
	TodayDeliveries int     `json:"today_deliveries"`
	TodayEarnings   float64 `json:"today_earnings"`
	WeekDeliveries  int     `json:"week_deliveries"`
	WeekEarnings    float64 `json:"week_earnings"`
}

func newAssignmentResponse(a *domain.DeliveryAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             a.ID,
		OrderID:        a.OrderID,
		OrderNumber:    a.OrderNumber,
		Status:         string(a.Status),
		DeliveryFee:    a.DeliveryFee,
		DriverEarnings: a.DriverEarnings,
		Latitude:       a.Latitude,
		Longitude:      a.Longitude,
		Notes:          a.Notes,
		AssignedAt:     a.AssignedAt,
		DeliveredAt:    a.DeliveredAt,
	}
}

func (h *DeliveryHandler) AvailableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.AvailableOrders(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderListResponse(orders))
}

func (h *DeliveryHandler) Accept(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, "Invalid order id", http.StatusBadRequest, nil)
		return
	}

	assignment, err := h.service.Accept(r.Context(), userFrom(r.Context()).ID, orderID)
	if err != nil {
		h.logger.Error("delivery_accept_failed", "Failed to accept order", requestIDFrom(r.Context()), map[string]interface{}{
			"order_id": orderID,
		}, err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newAssignmentResponse(assignment))
}

func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid assignment id", http.StatusBadRequest, nil)
		return
	}

	var req DeliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	assignment, err := h.service.UpdateStatus(r.Context(), userFrom(r.Context()).ID, assignmentID, interfaces.DeliveryStatusCommand{
		Status:    req.Status,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Notes:     req.Notes,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newAssignmentResponse(assignment))
}

func (h *DeliveryHandler) Active(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.service.Active(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newAssignmentResponse(assignment))
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}

func (h *DeliveryHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.SetAvailability(r.Context(), userFrom(r.Context()).ID, req.Available); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *DeliveryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DriverStatsResponse{
		TodayDeliveries: stats.TodayDeliveries,
		TodayEarnings:   stats.TodayEarnings,
		WeekDeliveries:  stats.WeekDeliveries,
		WeekEarnings:    stats.WeekEarnings,
	})
}
