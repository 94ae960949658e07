package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders   map[int]*domain.Order
	history  map[int][]*domain.StatusLog
	carts    *fakeCartRepo
	nextID   int
	sequence int
}

func newFakeOrderRepo(carts *fakeCartRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  make(map[int]*domain.Order),
		history: make(map[int][]*domain.StatusLog),
		carts:   carts,
		nextID:  1,
	}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	f.history[order.ID] = append(f.history[order.ID], &domain.StatusLog{
		OrderID: order.ID, Status: order.Status, ChangedBy: "order-service",
	})
	return f.carts.Clear(ctx, order.CustomerID)
}

func (f *fakeOrderRepo) GenerateOrderNumber(context.Context) (string, error) {
	f.sequence++
	return fmt.Sprintf("FE_20260830_%03d", f.sequence), nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id int) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) FindByNumber(_ context.Context, number string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.Number == number {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) ListByCustomer(_ context.Context, customerID int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
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

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, order *domain.Order, changedBy string, notes *string) error {
	f.orders[order.ID] = order
	f.history[order.ID] = append(f.history[order.ID], &domain.StatusLog{
		OrderID: order.ID, Status: order.Status, ChangedBy: changedBy, Notes: notes,
	})
	return nil
}

func (f *fakeOrderRepo) GetStatusHistory(_ context.Context, orderID int) ([]*domain.StatusLog, error) {
	return f.history[orderID], nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

type fakeCartRepo struct {
	lines map[int]*domain.CartLine
}

func (f *fakeCartRepo) ListByCustomer(_ context.Context, customerID int) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, l := range f.lines {
		if l.CustomerID == customerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) FindLine(context.Context, int) (*domain.CartLine, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeCartRepo) Add(context.Context, *domain.CartLine) error        { return nil }
func (f *fakeCartRepo) UpdateLine(context.Context, *domain.CartLine) error { return nil }
func (f *fakeCartRepo) RemoveLine(context.Context, int) error              { return nil }

func (f *fakeCartRepo) Clear(_ context.Context, customerID int) error {
	for id, l := range f.lines {
		if l.CustomerID == customerID {
			delete(f.lines, id)
		}
	}
	return nil
}

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

type fakeAddressRepo struct {
	addresses map[int]*domain.Address
}

func (f *fakeAddressRepo) Create(context.Context, *domain.Address) error { return nil }

func (f *fakeAddressRepo) FindByID(_ context.Context, id int) (*domain.Address, error) {
	a, ok := f.addresses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAddressRepo) ListByCustomer(context.Context, int) ([]*domain.Address, error) {
	return nil, nil
}

func (f *fakeAddressRepo) Update(context.Context, *domain.Address) error { return nil }
func (f *fakeAddressRepo) Delete(context.Context, int) error             { return nil }

type fakeRestaurantRepo struct {
	restaurants map[int]*domain.Restaurant
	items       map[int]*domain.MenuItem
}

func (f *fakeRestaurantRepo) List(context.Context, string, int, int) ([]*domain.Restaurant, error) {
	return nil, nil
}

func (f *fakeRestaurantRepo) FindByID(_ context.Context, id int) (*domain.Restaurant, error) {
	r, ok := f.restaurants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRestaurantRepo) FindByOwner(context.Context, int) (*domain.Restaurant, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRestaurantRepo) Menu(context.Context, int, bool) ([]*domain.MenuItem, error) {
	return nil, nil
}

func (f *fakeRestaurantRepo) FindMenuItem(_ context.Context, id int) (*domain.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (f *fakeRestaurantRepo) CreateMenuItem(context.Context, *domain.MenuItem) error { return nil }
func (f *fakeRestaurantRepo) UpdateMenuItem(context.Context, *domain.MenuItem) error { return nil }

type fakeDriverRepo struct {
	drivers map[int]*domain.Driver
}

func (f *fakeDriverRepo) FindByUserID(_ context.Context, userID int) (*domain.Driver, error) {
	d, ok := f.drivers[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeDriverRepo) SetAvailability(context.Context, int, bool) error { return nil }

type fakeDeliveryRepo struct {
	activeByDriver map[int]*domain.DeliveryAssignment
}

func (f *fakeDeliveryRepo) ListAvailableOrders(context.Context, int) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeDeliveryRepo) Claim(context.Context, *domain.DeliveryAssignment) error { return nil }

func (f *fakeDeliveryRepo) FindByID(context.Context, int) (*domain.DeliveryAssignment, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDeliveryRepo) FindActiveByDriver(_ context.Context, driverID int) (*domain.DeliveryAssignment, error) {
	a, ok := f.activeByDriver[driverID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeDeliveryRepo) Update(context.Context, *domain.DeliveryAssignment) error   { return nil }
func (f *fakeDeliveryRepo) Complete(context.Context, *domain.DeliveryAssignment) error { return nil }
func (f *fakeDeliveryRepo) Fail(context.Context, *domain.DeliveryAssignment) error     { return nil }

func (f *fakeDeliveryRepo) Stats(context.Context, int, time.Time) (*domain.DriverStats, error) {
	return &domain.DriverStats{}, nil
}

type fakePublisher struct {
	published []interfaces.OrderEventMessage
}

func (f *fakePublisher) PublishOrderEvent(_ context.Context, msg interfaces.OrderEventMessage) error {
	f.published = append(f.published, msg)
	return nil
}

type fixture struct {
	svc        *Service
	orders     *fakeOrderRepo
	carts      *fakeCartRepo
	deliveries *fakeDeliveryRepo
	publisher  *fakePublisher
}

func newFixture() *fixture {
	carts := &fakeCartRepo{lines: map[int]*domain.CartLine{
		1: {ID: 1, CustomerID: 1, MenuItemID: 1, RestaurantID: 10, Quantity: 2},
		2: {ID: 2, CustomerID: 1, MenuItemID: 2, RestaurantID: 10, Quantity: 1},
	}}
	orders := newFakeOrderRepo(carts)
	customers := &fakeCustomerRepo{customers: map[int]*domain.Customer{
		100: {ID: 1, UserID: 100},
		200: {ID: 2, UserID: 200},
	}}
	addresses := &fakeAddressRepo{addresses: map[int]*domain.Address{
		5: {ID: 5, CustomerID: 1, Street: "12 Abay Ave", City: "Almaty"},
		6: {ID: 6, CustomerID: 2, Street: "1 Another St", City: "Astana"},
	}}
	restaurants := &fakeRestaurantRepo{
		restaurants: map[int]*domain.Restaurant{
			10: {ID: 10, OwnerID: 300, Name: "Dastarkhan", Active: true},
		},
		items: map[int]*domain.MenuItem{
			1: {ID: 1, RestaurantID: 10, Name: "Beshbarmak", Price: 18.00, Available: true},
			2: {ID: 2, RestaurantID: 10, Name: "Baursaki", Price: 4.50, Available: true},
		},
	}
	drivers := &fakeDriverRepo{drivers: map[int]*domain.Driver{
		400: {ID: 40, UserID: 400, Available: true},
		401: {ID: 41, UserID: 401, Available: true},
	}}
	deliveries := &fakeDeliveryRepo{activeByDriver: map[int]*domain.DeliveryAssignment{}}
	publisher := &fakePublisher{}

	svc := NewService(orders, carts, customers, addresses, restaurants, drivers, deliveries, publisher, logger.New("test"))
	return &fixture{svc: svc, orders: orders, carts: carts, deliveries: deliveries, publisher: publisher}
}

func TestPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("prices and snapshots the cart", func(t *testing.T) {
		fx := newFixture()

		order, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)

		assert.Equal(t, "FE_20260830_001", order.Number)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, domain.PaymentPending, order.PaymentStatus)

		// 2 x 18.00 + 1 x 4.50
		assert.Equal(t, 40.50, order.Subtotal)
		assert.Equal(t, 15.00, order.DeliveryFee)
		assert.Equal(t, domain.Round2(40.50*0.14), order.Tax)
		assert.Equal(t, domain.Round2(40.50+15.00+40.50*0.14), order.Total)

		require.Len(t, order.Items, 2)
		for _, item := range order.Items {
			assert.NotEmpty(t, item.Name)
			assert.Greater(t, item.UnitPrice, 0.0)
		}
	})

	t.Run("clears the cart", func(t *testing.T) {
		fx := newFixture()

		_, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "card"})
		require.NoError(t, err)

		lines, err := fx.carts.ListByCustomer(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("publishes an order placed event", func(t *testing.T) {
		fx := newFixture()

		order, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)

		require.Len(t, fx.publisher.published, 1)
		msg := fx.publisher.published[0]
		assert.Equal(t, interfaces.EventOrderPlaced, msg.Event)
		assert.Equal(t, order.Number, msg.OrderNumber)
		assert.Equal(t, "pending", msg.NewStatus)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		fx := newFixture()
		fx.carts.lines = map[int]*domain.CartLine{}

		_, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		assert.ErrorIs(t, err, domain.ErrCartEmpty)
	})

	t.Run("rejects someone else's address", func(t *testing.T) {
		fx := newFixture()

		_, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 6, PaymentMethod: "cash"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("applies a known coupon", func(t *testing.T) {
		fx := newFixture()

		order, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{
			AddressID: 5, PaymentMethod: "cash", CouponCode: "WELCOME10",
		})
		require.NoError(t, err)
		assert.Equal(t, 10.00, order.Discount)
	})

	t.Run("ignores an unknown coupon", func(t *testing.T) {
		fx := newFixture()

		order, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{
			AddressID: 5, PaymentMethod: "cash", CouponCode: "BOGUS",
		})
		require.NoError(t, err)
		assert.Equal(t, 0.00, order.Discount)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	customer := &domain.User{ID: 100, Role: domain.RoleCustomer}

	t.Run("resolves id and number", func(t *testing.T) {
		fx := newFixture()
		placed, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)

		byID, err := fx.svc.Get(ctx, customer, fmt.Sprintf("%d", placed.ID))
		require.NoError(t, err)
		assert.Equal(t, placed.Number, byID.Number)

		byNumber, err := fx.svc.Get(ctx, customer, placed.Number)
		require.NoError(t, err)
		assert.Equal(t, placed.ID, byNumber.ID)

		_, err = fx.svc.Get(ctx, customer, "FE_20000101_999")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("only the order's parties may view it", func(t *testing.T) {
		fx := newFixture()
		placed, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)
		id := fmt.Sprintf("%d", placed.ID)

		_, err = fx.svc.Get(ctx, &domain.User{ID: 1, Role: domain.RoleAdmin}, id)
		assert.NoError(t, err)

		_, err = fx.svc.Get(ctx, &domain.User{ID: 300, Role: domain.RoleRestaurantOwner}, id)
		assert.NoError(t, err)

		// Another customer, another owner: no view.
		_, err = fx.svc.Get(ctx, &domain.User{ID: 200, Role: domain.RoleCustomer}, id)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = fx.svc.Get(ctx, &domain.User{ID: 301, Role: domain.RoleRestaurantOwner}, id)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("drivers see only their current delivery", func(t *testing.T) {
		fx := newFixture()
		placed, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)

		assigned := &domain.User{ID: 400, Role: domain.RoleDriver}
		unassigned := &domain.User{ID: 401, Role: domain.RoleDriver}
		fx.deliveries.activeByDriver[40] = &domain.DeliveryAssignment{ID: 1, OrderID: placed.ID, DriverID: 40}

		_, err = fx.svc.Get(ctx, assigned, fmt.Sprintf("%d", placed.ID))
		assert.NoError(t, err)

		_, err = fx.svc.Get(ctx, unassigned, fmt.Sprintf("%d", placed.ID))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("history follows the same scoping", func(t *testing.T) {
		fx := newFixture()
		placed, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)

		history, err := fx.svc.History(ctx, customer, placed.Number)
		require.NoError(t, err)
		assert.NotEmpty(t, history)

		_, err = fx.svc.History(ctx, &domain.User{ID: 200, Role: domain.RoleCustomer}, placed.Number)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	admin := &domain.User{ID: 1, Role: domain.RoleAdmin}
	owner := &domain.User{ID: 300, Role: domain.RoleRestaurantOwner}
	otherOwner := &domain.User{ID: 301, Role: domain.RoleRestaurantOwner}
	customer := &domain.User{ID: 100, Role: domain.RoleCustomer}

	place := func(t *testing.T, fx *fixture) *domain.Order {
		t.Helper()
		order, err := fx.svc.Place(ctx, 100, interfaces.PlaceOrderCommand{AddressID: 5, PaymentMethod: "cash"})
		require.NoError(t, err)
		return order
	}

	t.Run("owner confirms own restaurant's order", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		updated, err := fx.svc.UpdateStatus(ctx, owner, placed.ID, "confirmed", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, updated.Status)
	})

	t.Run("other owner is forbidden", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		_, err := fx.svc.UpdateStatus(ctx, otherOwner, placed.ID, "confirmed", nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("customer cancels own pending order", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		updated, err := fx.svc.UpdateStatus(ctx, customer, placed.ID, "cancelled", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, updated.Status)
	})

	t.Run("customer cannot cancel after confirmation", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		_, err := fx.svc.UpdateStatus(ctx, admin, placed.ID, "confirmed", nil)
		require.NoError(t, err)

		_, err = fx.svc.UpdateStatus(ctx, customer, placed.ID, "cancelled", nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("customer cannot advance an order", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		_, err := fx.svc.UpdateStatus(ctx, customer, placed.ID, "confirmed", nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		_, err := fx.svc.UpdateStatus(ctx, admin, placed.ID, "shipped", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		_, err := fx.svc.UpdateStatus(ctx, admin, placed.ID, "ready", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	})

	t.Run("status change is logged and published", func(t *testing.T) {
		fx := newFixture()
		placed := place(t, fx)

		_, err := fx.svc.UpdateStatus(ctx, admin, placed.ID, "confirmed", nil)
		require.NoError(t, err)

		history, err := fx.svc.History(ctx, admin, placed.Number)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, domain.StatusConfirmed, history[1].Status)
		assert.Equal(t, "admin-1", history[1].ChangedBy)

		// One event for placement, one for the change.
		require.Len(t, fx.publisher.published, 2)
		assert.Equal(t, interfaces.EventStatusChanged, fx.publisher.published[1].Event)
		assert.Equal(t, "pending", fx.publisher.published[1].OldStatus)
	})
}
