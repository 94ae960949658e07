package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/foodease/foodease/internal/adapter/logger"
	"github.com/foodease/foodease/internal/config"
	"github.com/foodease/foodease/internal/domain"
	"github.com/foodease/foodease/internal/interfaces"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	users  interfaces.UserRepository
	cfg    config.AuthConfig
	logger logger.Logger
}

func NewService(users interfaces.UserRepository, cfg config.AuthConfig, logger logger.Logger) *Service {
	return &Service{
		users:  users,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, cmd interfaces.RegisterCommand) (*domain.User, error) {
	user, err := domain.NewUser(cmd.Name, cmd.Email, cmd.Phone, domain.Role(cmd.Role))
	if err != nil {
		s.logger.Error("validation_failed", "User validation failed", "", nil, err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if len(cmd.Password) < 8 {
		return nil, fmt.Errorf("validation failed: password must be at least 8 characters")
	}

	if existing, err := s.users.FindByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	var driver *domain.Driver
	if user.Role == domain.RoleDriver {
		driver = &domain.Driver{
			VehicleType:  cmd.VehicleType,
			VehiclePlate: cmd.VehiclePlate,
			Available:    true,
		}
	}

	if err := s.users.Create(ctx, user, driver); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create user", "", nil, err)
		return nil, err
	}

	s.logger.Debug("user_registered", "User registered", "", map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})

	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*interfaces.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Debug("user_logged_in", "User logged in", "", map[string]interface{}{"user_id": user.ID})

	return &interfaces.LoginResult{Token: token, User: user}, nil
}

// Authenticate verifies the token signature and re-fetches the account,
// so disabled users lose access immediately rather than at token expiry.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	userID, err := strconv.Atoi(subject)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountDisabled
	}

	return user, nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(user.ID),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(s.cfg.TokenTTLHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.TokenSecret))
}
