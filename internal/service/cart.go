package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/repo"
	"github.com/framepix/frame_shop/internal/transport"
)

type CartService struct {
	Repo     *repo.GormRepo
	Producer Publisher
}

func (svc *CartService) publish(ctx context.Context, key string, event map[string]interface{}) {
	if svc.Producer == nil {
		return
	}
	if err := svc.Producer.PublishEvent(ctx, "cart_events", key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

func (svc *CartService) ListItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return svc.Repo.ListCartItems(ctx, userID)
}

// AddItem creates one cart line. The total is always computed here from
// price and quantity, never taken from the request.
func (svc *CartService) AddItem(ctx context.Context, req transport.AddToCartRequest, userID uint) (*models.CartItem, error) {
	if !models.ValidProductType(req.ProductType) {
		return nil, fmt.Errorf("%w: unknown product type %q", ErrValidation, req.ProductType)
	}
	if req.ProductID == nil && models.RequiresCatalogProduct(req.ProductType) {
		return nil, fmt.Errorf("%w: product_id required for type %q", ErrValidation, req.ProductType)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	item := &models.CartItem{
		UserID:      userID,
		ProductID:   req.ProductID,
		ProductType: req.ProductType,
		Title:       req.Title,
		Quantity:    qty,
		Size:        req.Size,
		Thickness:   req.Thickness,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		TotalAmount: req.Price * float64(qty),
	}

	if err := svc.Repo.CreateCartItem(ctx, item); err != nil {
		return nil, err
	}

	svc.publish(ctx, fmt.Sprint(userID), map[string]interface{}{
		"type":   "cart_item_added",
		"userID": userID,
		"itemID": item.ID,
	})
	return item, nil
}

// UpdateQuantity is the only mutation a cart line supports. TotalAmount is
// recomputed from the stored unit price; concurrent updates are
// last-write-wins by design.
func (svc *CartService) UpdateQuantity(ctx context.Context, id, userID uint, quantity uint) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
	}

	item, err := svc.Repo.GetCartItem(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, id)
		}
		return nil, err
	}

	item.Quantity = quantity
	item.TotalAmount = item.Price * float64(quantity)

	if err := svc.Repo.SaveCartItem(ctx, item); err != nil {
		return nil, err
	}

	svc.publish(ctx, fmt.Sprint(userID), map[string]interface{}{
		"type":     "cart_item_updated",
		"userID":   userID,
		"itemID":   item.ID,
		"quantity": quantity,
	})
	return item, nil
}

func (svc *CartService) RemoveItem(ctx context.Context, id, userID uint) error {
	affected, err := svc.Repo.DeleteCartItem(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, id)
	}

	svc.publish(ctx, fmt.Sprint(userID), map[string]interface{}{
		"type":   "cart_item_deleted",
		"userID": userID,
		"itemID": id,
	})
	return nil
}
