package cart

import (
	"context"
	"testing"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomerRepo struct {
	customer *domain.Customer
}

func (f *fakeCustomerRepo) FindByUserID(_ context.Context, userID int) (*domain.Customer, error) {
	if f.customer == nil || f.customer.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return f.customer, nil
}

type fakeCartRepo struct {
	lines  map[int]*domain.CartLine
	nextID int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[int]*domain.CartLine), nextID: 1}
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

func (f *fakeCartRepo) FindLine(_ context.Context, id int) (*domain.CartLine, error) {
	l, ok := f.lines[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeCartRepo) Add(_ context.Context, line *domain.CartLine) error {
	for _, l := range f.lines {
		if l.CustomerID == line.CustomerID && l.MenuItemID == line.MenuItemID {
			l.Quantity += line.Quantity
			line.ID = l.ID
			line.Quantity = l.Quantity
			return nil
		}
	}
	line.ID = f.nextID
	f.nextID++
	copied := *line
	f.lines[line.ID] = &copied
	return nil
}

func (f *fakeCartRepo) UpdateLine(_ context.Context, line *domain.CartLine) error {
	if _, ok := f.lines[line.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *line
	f.lines[line.ID] = &copied
	return nil
}

func (f *fakeCartRepo) RemoveLine(_ context.Context, id int) error {
	if _, ok := f.lines[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.lines, id)
	return nil
}

func (f *fakeCartRepo) Clear(_ context.Context, customerID int) error {
	for id, l := range f.lines {
		if l.CustomerID == customerID {
			delete(f.lines, id)
		}
	}
	return nil
}

type fakeRestaurantRepo struct {
	items map[int]*domain.MenuItem
}

func (f *fakeRestaurantRepo) List(context.Context, string, int, int) ([]*domain.Restaurant, error) {
	return nil, nil
}

func (f *fakeRestaurantRepo) FindByID(context.Context, int) (*domain.Restaurant, error) {
	return nil, domain.ErrNotFound
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

func newTestService() (*Service, *fakeCartRepo) {
	carts := newFakeCartRepo()
	customers := &fakeCustomerRepo{customer: &domain.Customer{ID: 1, UserID: 100}}
	restaurants := &fakeRestaurantRepo{items: map[int]*domain.MenuItem{
		1: {ID: 1, RestaurantID: 10, Name: "Beshbarmak", Price: 18.00, Available: true},
		2: {ID: 2, RestaurantID: 10, Name: "Baursaki", Price: 4.50, Available: true},
		3: {ID: 3, RestaurantID: 20, Name: "Plov", Price: 12.00, Available: true},
		4: {ID: 4, RestaurantID: 10, Name: "Kazy", Price: 25.00, Available: false},
	}}
	return NewService(carts, customers, restaurants, logger.New("test")), carts
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds an available item", func(t *testing.T) {
		svc, _ := newTestService()

		line, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 1, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "Beshbarmak", line.ItemName)
		assert.Equal(t, 18.00, line.UnitPrice)
		assert.Equal(t, 36.00, line.Subtotal())
	})

	t.Run("rejects a second restaurant", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 1, Quantity: 1})
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 3, Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrRestaurantMismatch)
	})

	t.Run("allows the second restaurant after clearing", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 1, Quantity: 1})
		require.NoError(t, err)
		require.NoError(t, svc.Clear(ctx, 100))

		_, err = svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 3, Quantity: 1})
		assert.NoError(t, err)
	})

	t.Run("rejects unavailable items", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 4, Quantity: 1})
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})

	t.Run("merges repeated adds of the same item", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 2, Quantity: 2})
		require.NoError(t, err)
		line, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 2, Quantity: 3})
		require.NoError(t, err)

		assert.Equal(t, 5, line.Quantity)

		cart, err := svc.Get(ctx, 100)
		require.NoError(t, err)
		assert.Len(t, cart.Lines, 1)
	})

	t.Run("caps the merged quantity", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 2, Quantity: 30})
		require.NoError(t, err)
		line, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 2, Quantity: 30})
		require.NoError(t, err)

		assert.Equal(t, 50, line.Quantity)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	line, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 1, Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, 100, line.ID, interfaces.UpdateCartItemCommand{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateItem(ctx, 100, line.ID, interfaces.UpdateCartItemCommand{Quantity: 99})
	assert.Error(t, err)
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	svc, carts := newTestService()

	// A line belonging to someone else's cart.
	carts.lines[77] = &domain.CartLine{ID: 77, CustomerID: 2, MenuItemID: 1, Quantity: 1}

	_, err := svc.UpdateItem(ctx, 100, 77, interfaces.UpdateCartItemCommand{Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.RemoveItem(ctx, 100, 77)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetComputesSubtotal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 100, interfaces.AddCartItemCommand{MenuItemID: 2, Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.Get(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, cart.RestaurantID)
	assert.Equal(t, 45.00, cart.Subtotal)
}
