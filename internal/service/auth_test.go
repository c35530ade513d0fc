package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framepix/frame_shop/pkg/tokens"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          newTestRepo(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Producer:      &fakePublisher{},
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.com", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "Asha", "  ", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "Asha", "a@b.com", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "customer", user.Role)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	_, err = svc.Register(ctx, "Someone Else", "asha@example.com", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims.Subject)
	assert.Equal(t, "customer", claims.Role)

	_, err = svc.Login(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// the old token was revoked by the rotation; replaying it fails
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// the rotated token still works
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	_, err := svc.Refresh(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogOut(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha Rao", "asha@example.com", "secret123")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.LogOut(ctx, pair.RefreshToken))

	// a revoked token can no longer be refreshed
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// logging out with no cookie is fine
	assert.NoError(t, svc.LogOut(ctx, ""))
}
