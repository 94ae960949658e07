package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/config"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users   map[int]*domain.User
	drivers map[int]*domain.Driver
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[int]*domain.User),
		drivers: make(map[int]*domain.Driver),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User, driver *domain.Driver) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	if driver != nil {
		driver.UserID = user.ID
		f.drivers[user.ID] = driver
	}
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	cfg := config.AuthConfig{TokenSecret: "test-secret", TokenTTLHours: 1}
	return NewService(repo, cfg, logger.New("test")), repo
}

func registerCmd() interfaces.RegisterCommand {
	return interfaces.RegisterCommand{
		Name:     "Aigerim",
		Email:    "aigerim@example.com",
		Password: "s3cret-pass",
		Phone:    "+77011234567",
		Role:     "customer",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a customer", func(t *testing.T) {
		svc, repo := newTestService()

		user, err := svc.Register(ctx, registerCmd())
		require.NoError(t, err)

		assert.NotZero(t, user.ID)
		assert.True(t, user.Active)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash, "password must be stored hashed")
		assert.Empty(t, repo.drivers)
	})

	t.Run("creates a driver profile alongside", func(t *testing.T) {
		svc, repo := newTestService()

		cmd := registerCmd()
		cmd.Role = "driver"
		cmd.VehicleType = "bike"
		cmd.VehiclePlate = "123ABC02"

		user, err := svc.Register(ctx, cmd)
		require.NoError(t, err)

		driver, ok := repo.drivers[user.ID]
		require.True(t, ok)
		assert.Equal(t, "bike", driver.VehicleType)
		assert.True(t, driver.Available)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, registerCmd())
		require.NoError(t, err)

		_, err = svc.Register(ctx, registerCmd())
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		svc, _ := newTestService()

		cmd := registerCmd()
		cmd.Password = "short"
		_, err := svc.Register(ctx, cmd)
		assert.Error(t, err)
	})

	t.Run("rejects admin self-registration", func(t *testing.T) {
		svc, _ := newTestService()

		cmd := registerCmd()
		cmd.Role = "admin"
		_, err := svc.Register(ctx, cmd)
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a usable token", func(t *testing.T) {
		svc, _ := newTestService()

		registered, err := svc.Register(ctx, registerCmd())
		require.NoError(t, err)

		result, err := svc.Login(ctx, "aigerim@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, result.User.ID)
		assert.Equal(t, 3, len(strings.Split(result.Token, ".")), "expected a JWT")

		authed, err := svc.Authenticate(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, authed.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, registerCmd())
		require.NoError(t, err)

		_, err = svc.Login(ctx, "aigerim@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		svc, repo := newTestService()

		user, err := svc.Register(ctx, registerCmd())
		require.NoError(t, err)
		repo.users[user.ID].Active = false

		_, err = svc.Login(ctx, "aigerim@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Authenticate(ctx, "not.a.token")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("account disabled after issue", func(t *testing.T) {
		svc, repo := newTestService()

		user, err := svc.Register(ctx, registerCmd())
		require.NoError(t, err)

		result, err := svc.Login(ctx, "aigerim@example.com", "s3cret-pass")
		require.NoError(t, err)

		repo.users[user.ID].Active = false

		_, err = svc.Authenticate(ctx, result.Token)
		assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		svcA, _ := newTestService()
		_, err := svcA.Register(ctx, registerCmd())
		require.NoError(t, err)
		result, err := svcA.Login(ctx, "aigerim@example.com", "s3cret-pass")
		require.NoError(t, err)

		repoB := newFakeUserRepo()
		svcB := NewService(repoB, config.AuthConfig{TokenSecret: "other-secret", TokenTTLHours: 1}, logger.New("test"))

		_, err = svcB.Authenticate(ctx, result.Token)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
