package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bazar/m/domain"
	"bazar/m/internal/port"
)

type AuthService struct {
	store  port.Store
	logger *zap.Logger
	cost   int
}

func NewAuthService(store port.Store, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, logger: logger, cost: bcrypt.DefaultCost}
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" || role == "" {
		return nil, fmt.Errorf("%w: username, password and role are required", ErrInvalidInput)
	}
	if role != domain.RoleAdmin && role != domain.RoleCashier {
		return nil, fmt.Errorf("%w: role must be admin or cashier", ErrInvalidInput)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{Username: username, Password: string(hashed), Role: role}
	err = s.store.WithinTx(ctx, func(tx port.Store) error {
		existing, err := tx.Users().GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrUsernameTaken
		}
		return tx.Users().Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("role", role))
	return &user, nil
}

// EnsureAdmin creates the bootstrap admin account unless the username is
// already taken. It reports whether a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Register(ctx, username, password, domain.RoleAdmin)
	if errors.Is(err, ErrUsernameTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new_password is required", ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Users().UpdatePassword(ctx, userID, string(hashed))
}
