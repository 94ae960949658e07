package http

import (
	"net/http"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/go-chi/chi/v5"
)

type Services struct {
	Auth     interfaces.AuthService
	Address  interfaces.AddressService
	Cart     interfaces.CartService
	Order    interfaces.OrderService
	Delivery interfaces.DeliveryService
	Catalog  interfaces.CatalogService
}

// NewRouter assembles the API under /api/v1. Public routes cover auth
// and restaurant browsing; everything else requires a bearer token and
// the matching role.
func NewRouter(services Services, log logger.Logger) http.Handler {
	authHandler := NewAuthHandler(services.Auth, log)
	addressHandler := NewAddressHandler(services.Address, log)
	cartHandler := NewCartHandler(services.Cart, log)
	orderHandler := NewOrderHandler(services.Order, log)
	deliveryHandler := NewDeliveryHandler(services.Delivery, log)
	catalogHandler := NewCatalogHandler(services.Catalog, log)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware(log))
	r.Use(LoggingMiddleware(log))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/restaurants", catalogHandler.ListRestaurants)
		r.Get("/restaurants/{id}", catalogHandler.GetRestaurant)
		r.Get("/restaurants/{id}/menu", catalogHandler.Menu)
		r.Get("/restaurants/{id}/reviews", catalogHandler.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(services.Auth))

			r.Get("/auth/me", authHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleCustomer))

				r.Route("/addresses", func(r chi.Router) {
					r.Get("/", addressHandler.List)
					r.Post("/", addressHandler.Create)
					r.Put("/{id}", addressHandler.Update)
					r.Delete("/{id}", addressHandler.Delete)
				})

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", cartHandler.Get)
					r.Delete("/", cartHandler.Clear)
					r.Post("/items", cartHandler.AddItem)
					r.Put("/items/{id}", cartHandler.UpdateItem)
					r.Delete("/items/{id}", cartHandler.RemoveItem)
				})

				r.Post("/orders", orderHandler.Place)
				r.Get("/orders", orderHandler.ListMine)

				r.Get("/favorites", catalogHandler.ListFavorites)
				r.Post("/favorites/{id}", catalogHandler.AddFavorite)
				r.Delete("/favorites/{id}", catalogHandler.RemoveFavorite)

				r.Post("/reviews", catalogHandler.AddReview)
			})

			// The service limits the view to the order's parties.
			r.Get("/orders/{id}", orderHandler.Get)
			r.Get("/orders/{id}/history", orderHandler.History)

			r.Group(func(r chi.Router) {
				// Customers may only cancel their own pending orders; the
				// service enforces the per-role rules.
				r.Use(RequireRole(domain.RoleCustomer, domain.RoleRestaurantOwner, domain.RoleAdmin))
				r.Put("/orders/status/{id}", orderHandler.UpdateStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleRestaurantOwner))

				r.Get("/restaurant/orders", catalogHandler.OwnerOrders)
				r.Post("/restaurant/menu-items", catalogHandler.CreateMenuItem)
				r.Put("/restaurant/menu-items/{id}", catalogHandler.UpdateMenuItem)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleDriver))

				r.Route("/delivery", func(r chi.Router) {
					r.Get("/available-orders", deliveryHandler.AvailableOrders)
					r.Post("/accept/{orderID}", deliveryHandler.Accept)
					r.Put("/status/{id}", deliveryHandler.UpdateStatus)
					r.Get("/active", deliveryHandler.Active)
					r.Get("/stats", deliveryHandler.Stats)
					r.Put("/availability", deliveryHandler.SetAvailability)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))

				r.Delete("/orders/{id}", orderHandler.Delete)
				r.Get("/admin/reports/platform", catalogHandler.PlatformReport)
			})
		})
	})

	return r
}
