package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRestaurantRepo struct {
	restaurants map[int]*domain.Restaurant
	items       map[int]*domain.MenuItem
	nextItemID  int
}

func (f *fakeRestaurantRepo) List(_ context.Context, search string, limit, offset int) ([]*domain.Restaurant, error) {
	var out []*domain.Restaurant
	for _, r := range f.restaurants {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRestaurantRepo) FindByID(_ context.Context, id int) (*domain.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRestaurantRepo) FindByOwner(_ context.Context, ownerID int) (*domain.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.OwnerID == ownerID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRestaurantRepo) Menu(_ context.Context, restaurantID int, includeUnavailable bool) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, item := range f.items {
		if item.RestaurantID != restaurantID {
			continue
		}
		if !item.Available && !includeUnavailable {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRestaurantRepo) FindMenuItem(_ context.Context, id int) (*domain.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (f *fakeRestaurantRepo) CreateMenuItem(_ context.Context, item *domain.MenuItem) error {
	item.ID = f.nextItemID
	f.nextItemID++
	f.items[item.ID] = item
	return nil
}

func (f *fakeRestaurantRepo) UpdateMenuItem(_ context.Context, item *domain.MenuItem) error {
	f.items[item.ID] = item
	return nil
}

type fakeFavoriteRepo struct {
	favorites map[int]map[int]bool
}

func (f *fakeFavoriteRepo) Add(_ context.Context, customerID, restaurantID int) error {
	if f.favorites[customerID] == nil {
		f.favorites[customerID] = make(map[int]bool)
	}
	f.favorites[customerID][restaurantID] = true
	return nil
}

func (f *fakeFavoriteRepo) Remove(_ context.Context, customerID, restaurantID int) error {
	delete(f.favorites[customerID], restaurantID)
	return nil
}

func (f *fakeFavoriteRepo) ListByCustomer(_ context.Context, customerID int) ([]*domain.Restaurant, error) {
	var out []*domain.Restaurant
	for id := range f.favorites[customerID] {
		out = append(out, &domain.Restaurant{ID: id})
	}
	return out, nil
}

type fakeReviewRepo struct {
	reviews map[int]*domain.Review
	nextID  int
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	review.ID = f.nextID
	f.nextID++
	review.CreatedAt = time.Now()
	f.reviews[review.OrderID] = review
	return nil
}

func (f *fakeReviewRepo) FindByOrder(_ context.Context, orderID int) (*domain.Review, error) {
	r, ok := f.reviews[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeReviewRepo) ListByRestaurant(_ context.Context, restaurantID int) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, r := range f.reviews {
		if r.RestaurantID == restaurantID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[int]*domain.Order
}

func (f *fakeOrderRepo) Create(context.Context, *domain.Order) error         { return nil }
func (f *fakeOrderRepo) GenerateOrderNumber(context.Context) (string, error) { return "", nil }

func (f *fakeOrderRepo) FindByID(_ context.Context, id int) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) FindByNumber(context.Context, string) (*domain.Order, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) ListByCustomer(context.Context, int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) ListByRestaurant(_ context.Context, restaurantID int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		if o.RestaurantID == restaurantID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(context.Context, *domain.Order, string, *string) error {
	return nil
}

func (f *fakeOrderRepo) GetStatusHistory(context.Context, int) ([]*domain.StatusLog, error) {
	return nil, nil
}

func (f *fakeOrderRepo) Delete(context.Context, int) error { return nil }

type fakeCustomerRepo struct {
	customers map[int]*domain.Customer
}

func (f *fakeCustomerRepo) FindByUserID(_ context.Context, userID int) (*domain.Customer, error) {
	c, ok := f.customers[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

type fakeReportRepo struct{}

func (f *fakeReportRepo) PlatformReport(context.Context) (*interfaces.PlatformReport, error) {
	return &interfaces.PlatformReport{TotalOrders: 12, DeliveredOrders: 9}, nil
}

func newFixture() *Service {
	restaurants := &fakeRestaurantRepo{
		restaurants: map[int]*domain.Restaurant{
			10: {ID: 10, OwnerID: 300, Name: "Dastarkhan", Active: true},
		},
		items: map[int]*domain.MenuItem{
			1: {ID: 1, RestaurantID: 10, Name: "Beshbarmak", Price: 18.00, Available: true},
			2: {ID: 2, RestaurantID: 10, Name: "Kazy", Price: 25.00, Available: false},
		},
		nextItemID: 3,
	}
	favorites := &fakeFavoriteRepo{favorites: make(map[int]map[int]bool)}
	reviews := &fakeReviewRepo{reviews: make(map[int]*domain.Review), nextID: 1}
	orders := &fakeOrderRepo{orders: map[int]*domain.Order{
		1: {ID: 1, CustomerID: 1, RestaurantID: 10, Status: domain.StatusDelivered},
		2: {ID: 2, CustomerID: 1, RestaurantID: 10, Status: domain.StatusPreparing},
		3: {ID: 3, CustomerID: 2, RestaurantID: 10, Status: domain.StatusDelivered},
	}}
	customers := &fakeCustomerRepo{customers: map[int]*domain.Customer{
		100: {ID: 1, UserID: 100},
	}}

	return NewService(restaurants, favorites, reviews, orders, customers, &fakeReportRepo{}, logger.New("test"))
}

func TestMenuHidesUnavailableItems(t *testing.T) {
	svc := newFixture()

	items, err := svc.Menu(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Beshbarmak", items[0].Name)
}

func TestAddReview(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a delivered order", func(t *testing.T) {
		svc := newFixture()

		review, err := svc.AddReview(ctx, 100, interfaces.ReviewCommand{OrderID: 1, Rating: 5, Comment: "excellent"})
		require.NoError(t, err)
		assert.Equal(t, 10, review.RestaurantID)
	})

	t.Run("rejects an undelivered order", func(t *testing.T) {
		svc := newFixture()

		_, err := svc.AddReview(ctx, 100, interfaces.ReviewCommand{OrderID: 2, Rating: 4})
		assert.Error(t, err)
	})

	t.Run("rejects someone else's order", func(t *testing.T) {
		svc := newFixture()

		_, err := svc.AddReview(ctx, 100, interfaces.ReviewCommand{OrderID: 3, Rating: 4})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("rejects a second review of the same order", func(t *testing.T) {
		svc := newFixture()

		_, err := svc.AddReview(ctx, 100, interfaces.ReviewCommand{OrderID: 1, Rating: 5})
		require.NoError(t, err)

		_, err = svc.AddReview(ctx, 100, interfaces.ReviewCommand{OrderID: 1, Rating: 1})
		assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	})

	t.Run("rejects an out-of-range rating", func(t *testing.T) {
		svc := newFixture()

		_, err := svc.AddReview(ctx, 100, interfaces.ReviewCommand{OrderID: 1, Rating: 6})
		assert.Error(t, err)
	})
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	svc := newFixture()

	require.NoError(t, svc.AddFavorite(ctx, 100, 10))

	favorites, err := svc.ListFavorites(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	require.NoError(t, svc.RemoveFavorite(ctx, 100, 10))

	favorites, err = svc.ListFavorites(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	err = svc.AddFavorite(ctx, 100, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOwnerMenuManagement(t *testing.T) {
	ctx := context.Background()
	svc := newFixture()

	item, err := svc.CreateMenuItem(ctx, 300, interfaces.MenuItemCommand{
		Name: "Shubat", Price: 6.00, Available: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, item.RestaurantID)

	updated, err := svc.UpdateMenuItem(ctx, 300, 1, interfaces.MenuItemCommand{
		Name: "Beshbarmak XL", Price: 22.00, Available: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Beshbarmak XL", updated.Name)

	// A user without a restaurant cannot manage menus.
	_, err = svc.CreateMenuItem(ctx, 999, interfaces.MenuItemCommand{Name: "X", Price: 1.00})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOwnerOrders(t *testing.T) {
	ctx := context.Background()
	svc := newFixture()

	orders, err := svc.OwnerOrders(ctx, 300)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestPlatformReport(t *testing.T) {
	svc := newFixture()

	report, err := svc.PlatformReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, report.TotalOrders)
}
