package cache

import (
	"context"
	"errors"

	"github.com/framepix/frame_shop/internal/models"
)

type ProductCache interface {
	Get(ctx context.Context, id uint) (*models.Product, error)
	Set(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
}

var ErrCacheMiss = errors.New("cache miss")
