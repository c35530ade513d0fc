package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framepix/frame_shop/internal/models"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client), mr
}

func TestGetMiss(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)
	_, err := c.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	p := &models.Product{
		ID:          7,
		Name:        "Acrylic Wall Photo",
		ProductType: models.TypeNewArrival,
		Sizes: []models.ProductSize{
			{ID: 1, ProductID: 7, Size: "12x18", Price: 1499},
		},
	}
	require.NoError(t, c.Set(ctx, p))
	require.True(t, mr.Exists("product:7"))

	got, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	require.Len(t, got.Sizes, 1)
	assert.Equal(t, "12x18", got.Sizes[0].Size)

	// entries carry a ttl
	assert.Greater(t, mr.TTL("product:7").Minutes(), float64(0))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &models.Product{ID: 9, Name: "Canvas"}))
	require.NoError(t, c.Delete(ctx, 9))

	_, err := c.Get(ctx, 9)
	assert.ErrorIs(t, err, ErrCacheMiss)

	// deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, 9))
}

func TestGetAfterExpiry(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, &models.Product{ID: 3, Name: "Backlight"}))
	mr.FastForward(c.baseTTL * 2)

	_, err := c.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
