package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")
	exp := time.Now().Add(AccessTTL)

	tok, err := SignAccessToken("42", "admin", secret, exp)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "admin", claims.Role)

	_, err = AccessClaimsFromToken(tok, []byte("wrong-secret"))
	assert.Error(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")
	tok, err := SignAccessToken("42", "customer", secret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	assert.Error(t, err)
}

func TestRefreshTokenCarriesUniqueJTI(t *testing.T) {
	t.Parallel()

	secret := []byte("refresh-secret")
	exp := time.Now().Add(RefreshTTL)

	first, err := SignRefreshToken("42", secret, exp)
	require.NoError(t, err)
	second, err := SignRefreshToken("42", secret, exp)
	require.NoError(t, err)

	c1, err := RefreshClaimsFromToken(first, secret)
	require.NoError(t, err)
	c2, err := RefreshClaimsFromToken(second, secret)
	require.NoError(t, err)

	assert.NotEmpty(t, c1.ID)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, "42", c1.Subject)
}

func TestSha256HexIsStable(t *testing.T) {
	t.Parallel()

	a := Sha256Hex("token-value")
	b := Sha256Hex("token-value")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Sha256Hex("other-value"))
}

func TestCookieLifecycle(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(AccessTTL)
	c := CreateCookie("accessToken", "value", "/", exp)
	assert.Equal(t, "accessToken", c.Name)
	assert.Equal(t, "value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)

	d := DeleteCookie("accessToken", "/")
	assert.Empty(t, d.Value)
	assert.Negative(t, d.MaxAge)
}
