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

type CatalogHandler struct {
	service interfaces.CatalogService
	logger  logger.Logger
}

func NewCatalogHandler(service interfaces.CatalogService, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

type RestaurantResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Cuisine     string  `json:"cuisine,omitempty"`
	Address     string  `json:"address,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

type MenuItemResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Available   bool    `json:"available"`
}

type ReviewRequest struct {
	OrderID int    `json:"order_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type ReviewResponse struct {
	ID        int       `json:"id"`
	OrderID   int       `json:"order_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	Available   bool    `json:"available"`
}

type ReportResponse struct {
	TotalOrders     int                 `json:"total_orders"`
	TotalRevenue    float64             `json:"total_revenue"`
	DeliveredOrders int                 `json:"delivered_orders"`
	CancelledOrders int                 `json:"cancelled_orders"`
	ActiveDrivers   int                 `json:"active_drivers"`
	TopRestaurants  []ReportRowResponse `json:"top_restaurants"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

type ReportRowResponse struct {
	RestaurantID int     `json:"restaurant_id"`
	Name         string  `json:"name"`
	OrderCount   int     `json:"order_count"`
	Revenue      float64 `json:"revenue"`
}

func newRestaurantResponse(r *domain.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Cuisine:     r.Cuisine,
		Address:     r.Address,
		Phone:       r.Phone,
		ImageURL:    r.ImageURL,
		Rating:      r.Rating,
		RatingCount: r.RatingCount,
	}
}

func newRestaurantListResponse(restaurants []*domain.Restaurant) []RestaurantResponse {
	resp := make([]RestaurantResponse, 0, len(restaurants))
	for _, r := range restaurants {
		resp = append(resp, newRestaurantResponse(r))
	}
	return resp
}

func newMenuItemResponse(m *domain.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		Available:   m.Available,
	}
}

func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	search := r.URL.Query().Get("search")

	restaurants, err := h.service.ListRestaurants(r.Context(), search, page)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newRestaurantListResponse(restaurants))
}

func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}

	restaurant, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newRestaurantResponse(restaurant))
}

func (h *CatalogHandler) Menu(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}

	items, err := h.service.Menu(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, newMenuItemResponse(item))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, ReviewResponse{
			ID:        review.ID,
			OrderID:   review.OrderID,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.ListFavorites(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newRestaurantListResponse(restaurants))
}

func (h *CatalogHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.AddFavorite(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid restaurant id", http.StatusBadRequest, nil)
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	var errors []ValidationError
	if req.OrderID < 1 {
		errors = append(errors, ValidationError{Field: "order_id", Message: "order id is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		errors = append(errors, ValidationError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if len(errors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errors)
		return
	}

	review, err := h.service.AddReview(r.Context(), userFrom(r.Context()).ID, interfaces.ReviewCommand{
		OrderID: req.OrderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ReviewResponse{
		ID:        review.ID,
		OrderID:   review.OrderID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	})
}

func (h *CatalogHandler) OwnerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.OwnerOrders(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderListResponse(orders))
}

func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMenuItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.CreateMenuItem(r.Context(), userFrom(r.Context()).ID, req.toCommand())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, newMenuItemResponse(item))
}

func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Invalid menu item id", http.StatusBadRequest, nil)
		return
	}

	req, ok := decodeMenuItemRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.UpdateMenuItem(r.Context(), userFrom(r.Context()).ID, itemID, req.toCommand())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newMenuItemResponse(item))
}

func (h *CatalogHandler) PlatformReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.PlatformReport(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := ReportResponse{
		TotalOrders:     report.TotalOrders,
		TotalRevenue:    report.TotalRevenue,
		DeliveredOrders: report.DeliveredOrders,
		CancelledOrders: report.CancelledOrders,
		ActiveDrivers:   report.ActiveDrivers,
		TopRestaurants:  make([]ReportRowResponse, 0, len(report.TopRestaurants)),
		GeneratedAt:     report.GeneratedAt,
	}
	for _, row := range report.TopRestaurants {
		resp.TopRestaurants = append(resp.TopRestaurants, ReportRowResponse{
			RestaurantID: row.RestaurantID,
			Name:         row.Name,
			OrderCount:   row.OrderCount,
			Revenue:      row.Revenue,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (req MenuItemRequest) toCommand() interfaces.MenuItemCommand {
	return interfaces.MenuItemCommand{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
	}
}

func decodeMenuItemRequest(w http.ResponseWriter, r *http.Request) (MenuItemRequest, bool) {
	var req MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest, nil)
		return req, false
	}

	var errors []ValidationError
	if req.Name == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}
	if req.Price < 0.01 {
		errors = append(errors, ValidationError{Field: "price", Message: "price must be at least 0.01"})
	}
	if len(errors) > 0 {
		respondError(w, "Validation failed", http.StatusBadRequest, errors)
		return req, false
	}

	return req, true
}
