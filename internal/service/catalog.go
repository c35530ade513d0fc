package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/cache"
	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/repo"
	"github.com/framepix/frame_shop/internal/search"
	"github.com/framepix/frame_shop/internal/transport"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Cache    cache.ProductCache
	Index    *search.Index
	Producer Publisher
}

func (svc *CatalogService) publish(ctx context.Context, key string, event map[string]interface{}) {
	if svc.Producer == nil {
		return
	}
	if err := svc.Producer.PublishEvent(ctx, "product_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func (svc *CatalogService) index(ctx context.Context, p *models.Product) {
	if svc.Index == nil {
		return
	}
	if err := svc.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("es index error", "productID", p.ID, "error", err)
	}
}

// GetProduct reads through the cache; the database stays authoritative.
func (svc *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if svc.Cache != nil {
		if p, err := svc.Cache.Get(ctx, id); err == nil {
			return p, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logging.FromContext(ctx).Warn("cache get error", "productID", id, "error", err)
		}
	}

	p, err := svc.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}

	if svc.Cache != nil {
		if err := svc.Cache.Set(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("cache set error", "productID", id, "error", err)
		}
	}
	return p, nil
}

func (svc *CatalogService) GetProducts(ctx context.Context, productType models.ProductType, offset, limit int) (int64, []models.Product, error) {
	if productType != "" && !models.ValidProductType(productType) {
		return 0, nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, productType)
	}
	return svc.Repo.GetProducts(ctx, productType, offset, limit)
}

func (svc *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !models.ValidProductType(req.ProductType) {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, req.ProductType)
	}
	if len(req.Sizes) == 0 {
		return nil, fmt.Errorf("%w: at least one size required", ErrValidation)
	}

	sizes := make([]models.ProductSize, 0, len(req.Sizes))
	for i, s := range req.Sizes {
		if s.Size == "" || s.Price < 0 {
			return nil, fmt.Errorf("%w: size %d invalid", ErrValidation, i)
		}
		sizes = append(sizes, models.ProductSize{Size: s.Size, Thickness: s.Thickness, Price: s.Price})
	}

	prod := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		ProductType: req.ProductType,
		ImageURL:    req.ImageURL,
		Sizes:       sizes,
	}
	if err := svc.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	svc.index(ctx, prod)
	svc.publish(ctx, fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (svc *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	prod, err := svc.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.ProductType != nil {
		if !models.ValidProductType(*req.ProductType) {
			return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, *req.ProductType)
		}
		prod.ProductType = *req.ProductType
	}
	if req.ImageURL != nil {
		prod.ImageURL = *req.ImageURL
	}
	if req.Sizes != nil {
		sizes := make([]models.ProductSize, 0, len(req.Sizes))
		for i, s := range req.Sizes {
			if s.Size == "" || s.Price < 0 {
				return nil, fmt.Errorf("%w: size %d invalid", ErrValidation, i)
			}
			sizes = append(sizes, models.ProductSize{ProductID: prod.ID, Size: s.Size, Thickness: s.Thickness, Price: s.Price})
		}
		prod.Sizes = sizes
	}

	if err := svc.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	if svc.Cache != nil {
		if err := svc.Cache.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("cache invalidate error", "productID", id, "error", err)
		}
	}
	svc.index(ctx, prod)
	svc.publish(ctx, fmt.Sprint(prod.ID), map[string]interface{}{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (svc *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := svc.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}

	if svc.Cache != nil {
		if err := svc.Cache.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("cache invalidate error", "productID", id, "error", err)
		}
	}
	if svc.Index != nil {
		if err := svc.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("es delete error", "productID", id, "error", err)
		}
	}
	svc.publish(ctx, fmt.Sprint(id), map[string]interface{}{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}
