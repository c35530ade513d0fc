package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framepix/frame_shop/internal/cache"
	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/transport"
)

// memCache is an in-process ProductCache so the read-through path can be
// observed without a redis instance.
type memCache struct {
	store map[uint]*models.Product
	gets  int
	hits  int
}

func newMemCache() *memCache {
	return &memCache{store: map[uint]*models.Product{}}
}

func (m *memCache) Get(_ context.Context, id uint) (*models.Product, error) {
	m.gets++
	if p, ok := m.store[id]; ok {
		m.hits++
		return p, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *memCache) Set(_ context.Context, p *models.Product) error {
	m.store[p.ID] = p
	return nil
}

func (m *memCache) Delete(_ context.Context, id uint) error {
	delete(m.store, id)
	return nil
}

func newCatalogService(t *testing.T) (*CatalogService, *memCache) {
	t.Helper()
	c := newMemCache()
	return &CatalogService{
		Repo:     newTestRepo(t),
		Cache:    c,
		Producer: &fakePublisher{},
	}, c
}

func sampleProduct() transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:        "Acrylic Wall Photo",
		Description: "Glossy acrylic print",
		ProductType: models.TypeNewArrival,
		ImageURL:    "https://media.test/acrylic.jpg",
		Sizes: []transport.ProductSizeInput{
			{Size: "12x18", Thickness: "5mm", Price: 1499},
			{Size: "16x24", Thickness: "5mm", Price: 2199},
		},
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalogService(t)
	ctx := context.Background()

	req := sampleProduct()
	req.Name = ""
	_, err := svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = sampleProduct()
	req.ProductType = "mystery"
	_, err = svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = sampleProduct()
	req.Sizes = nil
	_, err = svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)

	req = sampleProduct()
	req.Sizes[0].Price = -5
	_, err = svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetProductReadThrough(t *testing.T) {
	t.Parallel()

	svc, c := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, sampleProduct())
	require.NoError(t, err)

	// first read misses and populates
	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, 0, c.hits)

	// second read comes from the cache
	_, err = svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)

	_, err = svc.GetProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatchProductInvalidatesCache(t *testing.T) {
	t.Parallel()

	svc, c := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, sampleProduct())
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, created.ID) // warm the cache
	require.NoError(t, err)
	require.Contains(t, c.store, created.ID)

	name := "Acrylic Wall Photo XL"
	patched, err := svc.PatchProduct(ctx, transport.PatchProductRequest{Name: &name}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, name, patched.Name)
	assert.NotContains(t, c.store, created.ID)

	// untouched fields survive the patch
	assert.Equal(t, created.Description, patched.Description)
	assert.Len(t, patched.Sizes, 2)
}

func TestPatchProductReplacesSizes(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, sampleProduct())
	require.NoError(t, err)

	patched, err := svc.PatchProduct(ctx, transport.PatchProductRequest{
		Sizes: []transport.ProductSizeInput{{Size: "20x30", Thickness: "8mm", Price: 3499}},
	}, created.ID)
	require.NoError(t, err)
	require.Len(t, patched.Sizes, 1)
	assert.Equal(t, "20x30", patched.Sizes[0].Size)
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	svc, c := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, sampleProduct())
	require.NoError(t, err)
	_, err = svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	assert.NotContains(t, c.store, created.ID)

	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, created.ID), ErrNotFound)
}

func TestGetProductsFilterByType(t *testing.T) {
	t.Parallel()

	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, sampleProduct())
	require.NoError(t, err)

	offer := sampleProduct()
	offer.Name = "Canvas Offer"
	offer.ProductType = models.TypeSpecialOffer
	_, err = svc.CreateProduct(ctx, offer)
	require.NoError(t, err)

	total, items, err := svc.GetProducts(ctx, models.TypeSpecialOffer, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Canvas Offer", items[0].Name)

	total, _, err = svc.GetProducts(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = svc.GetProducts(ctx, "mystery", 0, 10)
	assert.ErrorIs(t, err, ErrValidation)
}
