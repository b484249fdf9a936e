package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bazar/m/domain"
)

func newTestAuthService(t *testing.T) *AuthService {
	svc := NewAuthService(newTestStore(t), zap.NewNop())
	svc.cost = bcrypt.MinCost
	return svc
}

func TestAuthService_RegisterAndAuthenticate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, " Caja1 ", "secret", domain.RoleCashier)
	require.NoError(t, err)
	assert.Equal(t, "caja1", user.Username)
	assert.NotEqual(t, "secret", user.Password)

	_, err = svc.Register(ctx, "caja1", "other", domain.RoleCashier)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := svc.Authenticate(ctx, "CAJA1", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "caja1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidates(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "secret", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "boss", "secret", "owner")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, "boss", "old", domain.RoleAdmin)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, ""), ErrInvalidInput)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "new"))

	_, err = svc.Authenticate(ctx, "boss", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "boss", "new")
	assert.NoError(t, err)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "boss", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "boss", "other")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := svc.Authenticate(ctx, "boss", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err = svc.EnsureAdmin(ctx, "", "secret")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
